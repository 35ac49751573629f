package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sampletrack/internal/domain"
)

// PostgresUsersRepository 账号 Repository 实现
type PostgresUsersRepository struct {
	db *sql.DB
}

// NewPostgresUsersRepository 创建账号 Repository
func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

// 确保实现了接口
var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	id::text,
	email,
	full_name,
	role,
	password_hash,
	active,
	created_at
`

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var fullName sql.NullString
	err := row.Scan(&u.UserID, &u.Email, &fullName, &u.Role, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if fullName.Valid {
		u.FullName = fullName.String
	}
	return &u, nil
}

// CreateUser 创建账号
func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) (string, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, role, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.UserID,
		user.Email,
		nullStr(user.FullName),
		user.Role,
		user.PasswordHash,
		user.Active,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Validationf("email %q already registered", user.Email)
		}
		return "", domain.Storef(err, "failed to insert user")
	}
	return user.UserID, nil
}

// GetUser 按主键获取账号
func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("user %s", userID)
		}
		return nil, domain.Storef(err, "failed to get user")
	}
	return u, nil
}

// FindByEmail 按登录邮箱查找账号
func (r *PostgresUsersRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("user %s", email)
		}
		return nil, domain.Storef(err, "failed to find user by email")
	}
	return u, nil
}

// ListUsers 批量查询账号（支持过滤和分页）
func (r *PostgresUsersRepository) ListUsers(ctx context.Context, filters *UserFilters, page, size int) ([]*domain.User, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	argN := 1

	if filters != nil {
		if filters.Role != "" {
			where = append(where, fmt.Sprintf("role = $%d", argN))
			args = append(args, filters.Role)
			argN++
		}
		if filters.Active != nil {
			where = append(where, fmt.Sprintf("active = $%d", argN))
			args = append(args, *filters.Active)
			argN++
		}
	}

	queryCount := `SELECT COUNT(*) FROM users WHERE ` + strings.Join(where, " AND ")
	var total int
	if err := r.db.QueryRowContext(ctx, queryCount, args...).Scan(&total); err != nil {
		return nil, 0, domain.Storef(err, "failed to count users")
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(argN) + ` OFFSET $` + fmt.Sprint(argN+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Storef(err, "failed to list users")
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, domain.Storef(err, "failed to scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Storef(err, "failed to iterate users")
	}
	return users, total, nil
}

// SetUserActive 启用/停用账号
func (r *PostgresUsersRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET active = $1 WHERE id = $2`, active, userID)
	if err != nil {
		return domain.Storef(err, "failed to update user status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("user %s", userID)
	}
	return nil
}
