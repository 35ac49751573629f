package repository

import (
	"context"

	"sampletrack/internal/domain"
)

// SampleFilters 样本列表查询过滤器
type SampleFilters struct {
	Status      domain.Status // 按当前状态过滤
	LabID       string        // 按采集实验室过滤
	CollectedBy string        // 按采集人过滤
	Search      string        // sample_id / patient_name 子串匹配（大小写不敏感）
}

// SamplesRepository 样本 Repository 接口
//
// CreateSample and Transition are the only write paths. Both must apply the
// sample write and the matching history write as one logical unit: a reader
// must never observe a sample whose status disagrees with its newest ledger
// entry.
type SamplesRepository interface {
	// CreateSample 插入样本行和首条 'new' 账本记录（同一事务）
	CreateSample(ctx context.Context, sample *domain.Sample, seed *domain.HistoryEntry) error

	// GetSample 按主键获取样本（不含账本）
	GetSample(ctx context.Context, id string) (*domain.Sample, error)

	// SampleCodeExists 样本编码唯一性预检
	SampleCodeExists(ctx context.Context, sampleCode string) (bool, error)

	// ListSamples 批量查询样本（支持过滤和分页），created_at 倒序
	ListSamples(ctx context.Context, filters *SampleFilters, page, size int) ([]*domain.Sample, int, error)

	// Transition 原子地更新 samples.status 并追加账本记录。
	// entry.SampleID selects the sample; entry.Status is the target status.
	// Returns the sample as committed.
	Transition(ctx context.Context, entry *domain.HistoryEntry) (*domain.Sample, error)

	// StatusCounts 按状态统计样本数（单次扫描）
	StatusCounts(ctx context.Context) (map[domain.Status]int, error)
}
