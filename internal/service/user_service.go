package service

import (
	"context"
	"strings"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService 账号管理服务（admin 专用）
type UserService struct {
	users  repository.UsersRepository
	logger *zap.Logger
}

// NewUserService 创建账号服务
func NewUserService(users repository.UsersRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// UserView 账号对外视图（不含密码哈希）
type UserView struct {
	UserID    string      `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserView(u *domain.User) *UserView {
	return &UserView{
		UserID:    u.UserID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// ListUsersRequest 账号列表请求
type ListUsersRequest struct {
	Role   string
	Active *bool
	Page   int
	Size   int
}

// ListUsersResponse 账号列表响应
type ListUsersResponse struct {
	Items []*UserView `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// ListUsers 批量查询账号，created_at 倒序
func (s *UserService) ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error) {
	filters := &repository.UserFilters{Active: req.Active}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		filters.Role = role
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 {
		req.Size = 20
	}

	users, total, err := s.users.ListUsers(ctx, filters, req.Page, req.Size)
	if err != nil {
		return nil, err
	}
	items := make([]*UserView, 0, len(users))
	for _, u := range users {
		items = append(items, toUserView(u))
	}
	return &ListUsersResponse{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

// CreateUserRequest 创建账号请求
type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// CreateUser 创建账号（默认启用）
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Validationf("valid email is required")
	}
	if req.Password == "" {
		return nil, domain.Validationf("password is required")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		PasswordHash: HashPassword(req.Password),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)),
	)
	return toUserView(user), nil
}

// SetUserActive 启用/停用账号
func (s *UserService) SetUserActive(ctx context.Context, userID string, active bool) error {
	if err := s.users.SetUserActive(ctx, userID, active); err != nil {
		return err
	}
	s.logger.Info("User status updated", zap.String("user_id", userID), zap.Bool("active", active))
	return nil
}
