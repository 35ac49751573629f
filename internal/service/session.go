package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionContext is the explicit per-request identity value handed to
// handlers once a bearer token resolves. Services receive actor ids from it;
// nothing reads ambient global user state.
type SessionContext struct {
	UserID   string      `json:"user_id"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"full_name"`
}

// session 会话落盘结构（KV 中的 JSON）
type session struct {
	Token     string      `json:"token"`
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	FullName  string      `json:"full_name"`
	ExpiresAt time.Time   `json:"expires_at"`
}

const sessionKeyPrefix = "session:"

// SessionManager 会话管理（token -> KV 中的 JSON，带 TTL）
type SessionManager struct {
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionManager 创建会话管理器
func NewSessionManager(kv store.KV, ttl time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{kv: kv, ttl: ttl, logger: logger}
}

// Create issues an opaque token for the user and stores the session with TTL.
func (m *SessionManager) Create(ctx context.Context, user *domain.User) (string, time.Time, error) {
	sess := session{
		Token:     uuid.NewString(),
		UserID:    user.UserID,
		Role:      user.Role,
		FullName:  user.FullName,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", time.Time{}, domain.Storef(err, "failed to encode session")
	}
	if err := m.kv.Set(ctx, sessionKeyPrefix+sess.Token, string(payload), m.ttl); err != nil {
		return "", time.Time{}, domain.Storef(err, "failed to store session")
	}
	return sess.Token, sess.ExpiresAt, nil
}

// Resolve maps a bearer token to its SessionContext. Missing or expired
// tokens come back as an auth error, never a store error.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*SessionContext, error) {
	if token == "" {
		return nil, domain.Authf("missing token")
	}
	raw, err := m.kv.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, domain.Authf("session expired")
		}
		return nil, domain.Storef(err, "failed to load session")
	}
	var sess session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, domain.Storef(err, "failed to decode session")
	}
	// Redis TTL normally handles expiry; the stored timestamp covers KV
	// backends without eviction.
	if time.Now().After(sess.ExpiresAt) {
		_ = m.kv.Del(ctx, sessionKeyPrefix+token)
		return nil, domain.Authf("session expired")
	}
	return &SessionContext{UserID: sess.UserID, Role: sess.Role, FullName: sess.FullName}, nil
}

// Revoke deletes the session key (logout).
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.kv.Del(ctx, sessionKeyPrefix+token); err != nil {
		return domain.Storef(err, "failed to revoke session")
	}
	return nil
}
