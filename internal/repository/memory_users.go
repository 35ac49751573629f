package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"sampletrack/internal/domain"
)

// MemoryUsersRepo 内存账号库（无 DB 联测 fallback）
type MemoryUsersRepo struct {
	mu    sync.RWMutex
	users map[string]*domain.User // id -> user
}

// NewMemoryUsersRepo 创建内存账号库
func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{users: map[string]*domain.User{}}
}

// 确保实现了接口
var _ UsersRepository = (*MemoryUsersRepo)(nil)

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

// CreateUser 创建账号
func (m *MemoryUsersRepo) CreateUser(ctx context.Context, user *domain.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return "", domain.Validationf("email %q already registered", user.Email)
		}
	}
	m.users[user.UserID] = cloneUser(user)
	return user.UserID, nil
}

// GetUser 按主键获取账号
func (m *MemoryUsersRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, domain.NotFoundf("user %s", userID)
	}
	return cloneUser(u), nil
}

// FindByEmail 按登录邮箱查找账号
func (m *MemoryUsersRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFoundf("user %s", email)
}

// ListUsers 批量查询账号
func (m *MemoryUsersRepo) ListUsers(ctx context.Context, filters *UserFilters, page, size int) ([]*domain.User, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []*domain.User{}
	for _, u := range m.users {
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.Active != nil && u.Active != *filters.Active {
				continue
			}
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].UserID > matched[j].UserID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return []*domain.User{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// SetUserActive 启用/停用账号
func (m *MemoryUsersRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return domain.NotFoundf("user %s", userID)
	}
	u.Active = active
	return nil
}
