package repository

import (
	"context"

	"sampletrack/internal/domain"
)

// LabsRepository 采集实验室 Repository 接口
type LabsRepository interface {
	// CreateLab 创建实验室，返回新实验室 ID
	CreateLab(ctx context.Context, lab *domain.Lab) (string, error)

	// GetLab 按主键获取实验室
	GetLab(ctx context.Context, labID string) (*domain.Lab, error)

	// ListLabs 按名称排序返回实验室；activeOnly 为 true 时只返回启用的
	ListLabs(ctx context.Context, activeOnly bool) ([]*domain.Lab, error)

	// SetLabActive 启用/停用实验室
	SetLabActive(ctx context.Context, labID string, active bool) error

	// CountSamplesByLab 统计某实验室采集的样本数
	CountSamplesByLab(ctx context.Context, labID string) (int, error)
}
