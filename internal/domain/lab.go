package domain

import "time"

// Lab 采集实验室领域模型（对应 labs 表）
type Lab struct {
	// 主键
	LabID string `db:"id" json:"id"` // UUID, PRIMARY KEY

	// 实验室名称
	Name string `db:"name" json:"name"` // VARCHAR(100), NOT NULL

	// 地址（可选）
	Location string `db:"location" json:"location,omitempty"` // TEXT, nullable

	// 是否启用
	Active bool `db:"active" json:"active"` // BOOLEAN, NOT NULL, DEFAULT TRUE

	// 创建人
	CreatedBy string `db:"created_by" json:"created_by,omitempty"` // UUID, nullable, FK to users

	// 创建时间
	CreatedAt time.Time `db:"created_at" json:"created_at"` // TIMESTAMPTZ, NOT NULL, DEFAULT CURRENT_TIMESTAMP
}
