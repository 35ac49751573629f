package domain

import "time"

// Sample 样本领域模型（对应 samples 表）
// One tracked physical specimen. The status column is the only mutable
// field and may only change through the atomic transition operation.
type Sample struct {
	// 主键
	ID string `db:"id" json:"id"` // UUID, PRIMARY KEY

	// 人工可读样本编码，全局唯一，创建后不可变
	SampleID string `db:"sample_id" json:"sample_id"` // VARCHAR(20), NOT NULL, UNIQUE, format DNA-NNNNNN-NNN

	// 病人信息
	PatientName string `db:"patient_name" json:"patient_name"` // TEXT, NOT NULL
	Age         *int   `db:"age" json:"age,omitempty"`         // INTEGER, nullable
	Gender      string `db:"gender" json:"gender,omitempty"`   // VARCHAR(10), nullable

	// 当前状态
	Status Status `db:"status" json:"status"` // VARCHAR(20), NOT NULL, DEFAULT 'new'

	// 采集端
	CollectedBy string `db:"collected_by" json:"collected_by,omitempty"` // UUID, nullable, FK to users
	LabID       string `db:"lab_id" json:"lab_id,omitempty"`             // UUID, nullable, FK to labs

	// QR 码链接（渲染由前端负责，这里只存 URL）
	QRCodeURL string `db:"qr_code_url" json:"qr_code_url,omitempty"` // TEXT, nullable

	// 创建时间，不可变
	CreatedAt time.Time `db:"created_at" json:"created_at"` // TIMESTAMPTZ, NOT NULL, DEFAULT CURRENT_TIMESTAMP
}

// SampleStats 按状态统计（派生数据，不落库）
type SampleStats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	InTransit int `json:"inTransit"`
	Stored    int `json:"stored"`
	Processed int `json:"processed"`
	Archived  int `json:"archived"`
}
