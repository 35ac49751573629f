package domain

import "time"

// HistoryEntry 样本状态流转记录（对应 sample_history 表）
// Append-only: rows are never updated or deleted. Ordered by created_at
// ascending, the entries for a sample reconstruct its full status timeline,
// and the newest entry's status must equal the sample's current status.
type HistoryEntry struct {
	// 主键
	ID string `db:"id" json:"id"` // UUID, PRIMARY KEY

	// 所属样本
	SampleID string `db:"sample_id" json:"sample_id"` // UUID, NOT NULL, FK to samples

	// 本次流转的目标状态
	Status Status `db:"status" json:"status"` // VARCHAR(20), NOT NULL

	// 备注（可选）
	Note string `db:"note" json:"note,omitempty"` // TEXT, nullable

	// 操作人
	CreatedBy string `db:"created_by" json:"created_by,omitempty"` // UUID, nullable, FK to users

	// 记录时间，不可变
	CreatedAt time.Time `db:"created_at" json:"created_at"` // TIMESTAMPTZ, NOT NULL, DEFAULT CURRENT_TIMESTAMP
}
