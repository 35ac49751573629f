package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/repository"

	"go.uber.org/zap"
)

// AuthService 登录/会话服务
type AuthService struct {
	users    repository.UsersRepository
	sessions *SessionManager
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService
func NewAuthService(users repository.UsersRepository, sessions *SessionManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, logger: logger}
}

// HashPassword hashes a password for storage (hex-encoded SHA256).
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email     string
	Password  string
	IPAddress string // 客户端 IP（用于日志）
	UserAgent string // 客户端 User-Agent（用于日志）
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	UserID      string      `json:"userId"`
	Email       string      `json:"email"`
	FullName    string      `json:"fullName"`
	Role        domain.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		s.logger.Warn("Login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, domain.Authf("missing credentials")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Login failed: unknown account",
				zap.String("ip_address", req.IPAddress),
				zap.String("user_agent", req.UserAgent),
			)
			return nil, domain.Authf("invalid credentials")
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(HashPassword(req.Password)), []byte(user.PasswordHash)) != 1 {
		s.logger.Warn("Login failed: password mismatch",
			zap.String("user_id", user.UserID),
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, domain.Authf("invalid credentials")
	}

	if !user.Active {
		s.logger.Warn("Login failed: account disabled",
			zap.String("user_id", user.UserID),
			zap.String("ip_address", req.IPAddress),
		)
		return nil, domain.Authf("account disabled")
	}

	token, expiresAt, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)),
	)

	return &LoginResponse{
		AccessToken: token,
		UserID:      user.UserID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		ExpiresAt:   expiresAt,
	}, nil
}

// CurrentUser resolves a bearer token into a SessionContext.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*SessionContext, error) {
	return s.sessions.Resolve(ctx, token)
}

// Logout 注销会话
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
