package repository

import (
	"context"

	"sampletrack/internal/domain"
)

// UserFilters 账号列表查询过滤器
type UserFilters struct {
	Role   domain.Role // 按角色过滤
	Active *bool       // 按启用状态过滤（nil 表示不过滤）
}

// UsersRepository 账号 Repository 接口
type UsersRepository interface {
	// CreateUser 创建账号，返回新账号 ID
	CreateUser(ctx context.Context, user *domain.User) (string, error)

	// GetUser 按主键获取账号
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// FindByEmail 按登录邮箱查找账号（登录用）；未找到返回 domain.ErrNotFound
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers 批量查询账号（支持过滤和分页），created_at 倒序
	ListUsers(ctx context.Context, filters *UserFilters, page, size int) ([]*domain.User, int, error)

	// SetUserActive 启用/停用账号
	SetUserActive(ctx context.Context, userID string, active bool) error
}
