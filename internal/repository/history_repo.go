package repository

import (
	"context"

	"sampletrack/internal/domain"
)

// HistoryRepository 状态账本 Repository 接口
//
// Append-only: no update or delete is exposed. Mutating the ledger outside
// AppendEntry is a schema violation, not an API.
type HistoryRepository interface {
	// AppendEntry 追加一条账本记录；样本不存在时返回 domain.ErrNotFound。
	// 只写账本，不触碰 samples.status（状态流转走 SamplesRepository.Transition）。
	AppendEntry(ctx context.Context, entry *domain.HistoryEntry) (string, error)

	// ListHistory 按 created_at 升序返回指定样本的全部账本记录；
	// 无记录时返回空序列而不是错误。
	ListHistory(ctx context.Context, sampleID string) ([]*domain.HistoryEntry, error)
}
