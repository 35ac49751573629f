package repository

import (
	"context"
	"sort"
	"sync"

	"sampletrack/internal/domain"
)

// MemoryLabsRepo 内存实验室库（无 DB 联测 fallback）
// Sample counts are answered from the shared MemorySampleStore.
type MemoryLabsRepo struct {
	mu      sync.RWMutex
	labs    map[string]*domain.Lab
	samples *MemorySampleStore
}

// NewMemoryLabsRepo 创建内存实验室库
func NewMemoryLabsRepo(samples *MemorySampleStore) *MemoryLabsRepo {
	return &MemoryLabsRepo{
		labs:    map[string]*domain.Lab{},
		samples: samples,
	}
}

// 确保实现了接口
var _ LabsRepository = (*MemoryLabsRepo)(nil)

func cloneLab(l *domain.Lab) *domain.Lab {
	cp := *l
	return &cp
}

// CreateLab 创建实验室
func (m *MemoryLabsRepo) CreateLab(ctx context.Context, lab *domain.Lab) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.labs[lab.LabID] = cloneLab(lab)
	return lab.LabID, nil
}

// GetLab 按主键获取实验室
func (m *MemoryLabsRepo) GetLab(ctx context.Context, labID string) (*domain.Lab, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.labs[labID]
	if !ok {
		return nil, domain.NotFoundf("lab %s", labID)
	}
	return cloneLab(l), nil
}

// ListLabs 按名称排序返回实验室
func (m *MemoryLabsRepo) ListLabs(ctx context.Context, activeOnly bool) ([]*domain.Lab, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	labs := []*domain.Lab{}
	for _, l := range m.labs {
		if activeOnly && !l.Active {
			continue
		}
		labs = append(labs, cloneLab(l))
	}
	sort.Slice(labs, func(i, j int) bool { return labs[i].Name < labs[j].Name })
	return labs, nil
}

// SetLabActive 启用/停用实验室
func (m *MemoryLabsRepo) SetLabActive(ctx context.Context, labID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.labs[labID]
	if !ok {
		return domain.NotFoundf("lab %s", labID)
	}
	l.Active = active
	return nil
}

// CountSamplesByLab 统计某实验室采集的样本数
func (m *MemoryLabsRepo) CountSamplesByLab(ctx context.Context, labID string) (int, error) {
	if m.samples == nil {
		return 0, nil
	}
	return m.samples.CountSamplesByLab(ctx, labID)
}
