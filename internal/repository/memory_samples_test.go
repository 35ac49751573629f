package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"sampletrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSample(id, code, patient string, status domain.Status, createdAt time.Time) *domain.Sample {
	return &domain.Sample{
		ID:          id,
		SampleID:    code,
		PatientName: patient,
		Status:      status,
		CreatedAt:   createdAt,
	}
}

func seedEntry(sampleID string, createdAt time.Time) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:        "h-" + sampleID,
		SampleID:  sampleID,
		Status:    domain.StatusNew,
		CreatedAt: createdAt,
	}
}

func TestMemorySampleStore_CreateAndGet(t *testing.T) {
	store := NewMemorySampleStore()
	ctx := context.Background()
	now := time.Now()

	err := store.CreateSample(ctx, newSample("s1", "DNA-123456-001", "Alice Wu", domain.StatusNew, now), seedEntry("s1", now))
	require.NoError(t, err)

	got, err := store.GetSample(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "DNA-123456-001", got.SampleID)
	assert.Equal(t, domain.StatusNew, got.Status)

	entries, err := store.ListHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StatusNew, entries[0].Status)

	_, err = store.GetSample(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemorySampleStore_DuplicateCodeRejected(t *testing.T) {
	store := NewMemorySampleStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateSample(ctx, newSample("s1", "DNA-111111-001", "A", domain.StatusNew, now), seedEntry("s1", now)))

	err := store.CreateSample(ctx, newSample("s2", "DNA-111111-001", "B", domain.StatusNew, now), seedEntry("s2", now))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	exists, err := store.SampleCodeExists(ctx, "DNA-111111-001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemorySampleStore_Transition(t *testing.T) {
	store := NewMemorySampleStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateSample(ctx, newSample("s1", "DNA-222222-001", "A", domain.StatusNew, now), seedEntry("s1", now)))

	updated, err := store.Transition(ctx, &domain.HistoryEntry{
		ID:        "h2",
		SampleID:  "s1",
		Status:    domain.StatusInTransit,
		Note:      "courier pickup",
		CreatedBy: "mgr-1",
		CreatedAt: now.Add(time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, updated.Status)

	entries, err := store.ListHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.StatusInTransit, entries[1].Status)
	assert.Equal(t, "mgr-1", entries[1].CreatedBy)

	_, err = store.Transition(ctx, &domain.HistoryEntry{ID: "h3", SampleID: "missing", Status: domain.StatusStored, CreatedAt: now})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemorySampleStore_AppendEntryRequiresSample(t *testing.T) {
	store := NewMemorySampleStore()
	ctx := context.Background()

	_, err := store.AppendEntry(ctx, &domain.HistoryEntry{ID: "h1", SampleID: "missing", Status: domain.StatusNew, CreatedAt: time.Now()})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	entries, err := store.ListHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemorySampleStore_ListFiltersAndOrder(t *testing.T) {
	store := NewMemorySampleStore()
	ctx := context.Background()
	base := time.Now()

	samples := []*domain.Sample{
		newSample("s1", "DNA-000001-001", "Alice Wu", domain.StatusNew, base),
		newSample("s2", "DNA-000002-002", "Bob Chen", domain.StatusStored, base.Add(time.Minute)),
		newSample("s3", "DNA-000003-003", "Carol Diaz", domain.StatusStored, base.Add(2*time.Minute)),
	}
	samples[2].LabID = "lab-1"
	for _, s := range samples {
		require.NoError(t, store.CreateSample(ctx, s, seedEntry(s.ID, s.CreatedAt)))
	}

	// created_at 倒序
	all, total, err := store.ListSamples(ctx, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "s3", all[0].ID)
	assert.Equal(t, "s1", all[2].ID)

	// 状态过滤
	stored, total, err := store.ListSamples(ctx, &SampleFilters{Status: domain.StatusStored}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, stored, 2)

	// lab 过滤
	byLab, total, err := store.ListSamples(ctx, &SampleFilters{LabID: "lab-1"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byLab, 1)
	assert.Equal(t, "s3", byLab[0].ID)

	// searchTerm 大小写不敏感子串，匹配 sample_id 或 patient_name
	found, total, err := store.ListSamples(ctx, &SampleFilters{Search: "ob ch"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "s2", found[0].ID)

	found, _, err = store.ListSamples(ctx, &SampleFilters{Search: "dna-000003"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "s3", found[0].ID)

	// 分页
	page2, total, err := store.ListSamples(ctx, nil, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "s1", page2[0].ID)
}

func TestMemorySampleStore_StatusCounts(t *testing.T) {
	store := NewMemorySampleStore()
	ctx := context.Background()
	now := time.Now()

	counts, err := store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, store.CreateSample(ctx, newSample("s1", "DNA-000001-001", "A", domain.StatusNew, now), seedEntry("s1", now)))
	require.NoError(t, store.CreateSample(ctx, newSample("s2", "DNA-000002-002", "B", domain.StatusNew, now), seedEntry("s2", now)))
	_, err = store.Transition(ctx, &domain.HistoryEntry{ID: "h", SampleID: "s2", Status: domain.StatusArchived, CreatedAt: now})
	require.NoError(t, err)

	counts, err = store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.StatusNew])
	assert.Equal(t, 1, counts[domain.StatusArchived])
}
