package domain

import "time"

// User 账号领域模型（对应 users 表）
type User struct {
	// 主键
	UserID string `db:"id"` // UUID, PRIMARY KEY

	// 登录邮箱，全局唯一
	Email string `db:"email"` // VARCHAR(255), NOT NULL, UNIQUE

	// 显示名
	FullName string `db:"full_name"` // VARCHAR(100), nullable

	// 角色：'admin' / 'lab' / 'manager'
	Role Role `db:"role"` // VARCHAR(20), NOT NULL

	// 密码哈希（SHA256，十六进制编码）；永不序列化
	PasswordHash string `db:"password_hash" json:"-"` // CHAR(64), NOT NULL

	// 是否启用
	Active bool `db:"active"` // BOOLEAN, NOT NULL, DEFAULT TRUE

	// 创建时间
	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL, DEFAULT CURRENT_TIMESTAMP
}
