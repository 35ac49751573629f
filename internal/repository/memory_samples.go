package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"sampletrack/internal/domain"
)

// MemorySampleStore 内存样本库（无 DB 联测 fallback，也作单测后端）
// Holds samples and their ledger behind one mutex so the two-write
// transition is atomic the same way the Postgres transaction is.
type MemorySampleStore struct {
	mu      sync.RWMutex
	samples map[string]*domain.Sample         // id -> sample
	history map[string][]*domain.HistoryEntry // sample id -> entries, append order
}

// NewMemorySampleStore 创建内存样本库
func NewMemorySampleStore() *MemorySampleStore {
	return &MemorySampleStore{
		samples: map[string]*domain.Sample{},
		history: map[string][]*domain.HistoryEntry{},
	}
}

// 确保实现了接口
var (
	_ SamplesRepository = (*MemorySampleStore)(nil)
	_ HistoryRepository = (*MemorySampleStore)(nil)
)

func cloneSample(s *domain.Sample) *domain.Sample {
	cp := *s
	if s.Age != nil {
		v := *s.Age
		cp.Age = &v
	}
	return &cp
}

func cloneEntry(e *domain.HistoryEntry) *domain.HistoryEntry {
	cp := *e
	return &cp
}

// CreateSample 插入样本和首条账本记录（互斥锁下一次完成）
func (m *MemorySampleStore) CreateSample(ctx context.Context, sample *domain.Sample, seed *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.samples {
		if existing.SampleID == sample.SampleID {
			return domain.Validationf("sample_id %q already exists", sample.SampleID)
		}
	}
	m.samples[sample.ID] = cloneSample(sample)
	m.history[sample.ID] = append(m.history[sample.ID], cloneEntry(seed))
	return nil
}

// GetSample 按主键获取样本
func (m *MemorySampleStore) GetSample(ctx context.Context, id string) (*domain.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.samples[id]
	if !ok {
		return nil, domain.NotFoundf("sample %s", id)
	}
	return cloneSample(s), nil
}

// SampleCodeExists 样本编码唯一性预检
func (m *MemorySampleStore) SampleCodeExists(ctx context.Context, sampleCode string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.samples {
		if s.SampleID == sampleCode {
			return true, nil
		}
	}
	return false, nil
}

func matchesFilters(s *domain.Sample, filters *SampleFilters) bool {
	if filters == nil {
		return true
	}
	if filters.Status != "" && s.Status != filters.Status {
		return false
	}
	if filters.LabID != "" && s.LabID != filters.LabID {
		return false
	}
	if filters.CollectedBy != "" && s.CollectedBy != filters.CollectedBy {
		return false
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(s.SampleID), needle) &&
			!strings.Contains(strings.ToLower(s.PatientName), needle) {
			return false
		}
	}
	return true
}

// ListSamples 批量查询样本（过滤 + created_at 倒序 + 分页）
func (m *MemorySampleStore) ListSamples(ctx context.Context, filters *SampleFilters, page, size int) ([]*domain.Sample, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []*domain.Sample{}
	for _, s := range m.samples {
		if matchesFilters(s, filters) {
			matched = append(matched, cloneSample(s))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return []*domain.Sample{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Transition 原子地更新状态并追加账本记录
func (m *MemorySampleStore) Transition(ctx context.Context, entry *domain.HistoryEntry) (*domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.samples[entry.SampleID]
	if !ok {
		return nil, domain.NotFoundf("sample %s", entry.SampleID)
	}
	s.Status = entry.Status
	m.history[entry.SampleID] = append(m.history[entry.SampleID], cloneEntry(entry))
	return cloneSample(s), nil
}

// StatusCounts 按状态统计样本数
func (m *MemorySampleStore) StatusCounts(ctx context.Context) (map[domain.Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[domain.Status]int{}
	for _, s := range m.samples {
		counts[s.Status]++
	}
	return counts, nil
}

// AppendEntry 追加一条账本记录（不触碰样本状态）
func (m *MemorySampleStore) AppendEntry(ctx context.Context, entry *domain.HistoryEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.samples[entry.SampleID]; !ok {
		return "", domain.NotFoundf("sample %s", entry.SampleID)
	}
	m.history[entry.SampleID] = append(m.history[entry.SampleID], cloneEntry(entry))
	return entry.ID, nil
}

// ListHistory 按 created_at 升序返回账本记录
func (m *MemorySampleStore) ListHistory(ctx context.Context, sampleID string) ([]*domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*domain.HistoryEntry, 0, len(m.history[sampleID]))
	for _, e := range m.history[sampleID] {
		entries = append(entries, cloneEntry(e))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// CountSamplesByLab 统计某实验室采集的样本数（给内存 labs repo 用）
func (m *MemorySampleStore) CountSamplesByLab(ctx context.Context, labID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, s := range m.samples {
		if s.LabID == labID {
			n++
		}
	}
	return n, nil
}
