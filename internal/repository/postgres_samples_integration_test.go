//go:build integration
// +build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"
	"time"

	"sampletrack/internal/config"
	"sampletrack/internal/database"
	"sampletrack/internal/domain"

	"github.com/google/uuid"
)

func testEnvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getTestDB(t *testing.T) *sql.DB {
	cfg := &config.DatabaseConfig{
		Host:     testEnvStr("TEST_DB_HOST", "localhost"),
		Port:     testEnvInt("TEST_DB_PORT", 5432),
		User:     testEnvStr("TEST_DB_USER", "postgres"),
		Password: testEnvStr("TEST_DB_PASSWORD", "postgres"),
		Database: testEnvStr("TEST_DB_NAME", "sampletrack"),
		SSLMode:  testEnvStr("TEST_DB_SSLMODE", "disable"),
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	return db
}

func newTestSample(collectedBy string) (*domain.Sample, *domain.HistoryEntry) {
	now := time.Now().UTC()
	sample := &domain.Sample{
		ID:          uuid.NewString(),
		SampleID:    "DNA-" + now.Format("040506") + "-999",
		PatientName: "Integration Test Patient",
		Status:      domain.StatusNew,
		CollectedBy: collectedBy,
		CreatedAt:   now,
	}
	seed := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		SampleID:  sample.ID,
		Status:    domain.StatusNew,
		CreatedBy: collectedBy,
		CreatedAt: now,
	}
	return sample, seed
}

func cleanupSample(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	if _, err := db.Exec("DELETE FROM sample_history WHERE sample_id = $1", id); err != nil {
		t.Logf("cleanup sample_history failed: %v", err)
	}
	if _, err := db.Exec("DELETE FROM samples WHERE id = $1", id); err != nil {
		t.Logf("cleanup samples failed: %v", err)
	}
}

func TestPostgresSamples_CreateAndGet(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewPostgresSamplesRepository(db)
	histRepo := NewPostgresHistoryRepository(db)

	sample, seed := newTestSample("test-user")
	defer cleanupSample(t, db, sample.ID)

	if err := repo.CreateSample(ctx, sample, seed); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	got, err := repo.GetSample(ctx, sample.ID)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if got.Status != domain.StatusNew {
		t.Fatalf("expected status new, got %s", got.Status)
	}

	entries, err := histRepo.ListHistory(ctx, sample.ID)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 seed entry, got %d", len(entries))
	}

	t.Logf("CreateAndGet success: id=%s sample_id=%s", got.ID, got.SampleID)
}

func TestPostgresSamples_TransitionIsAtomic(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewPostgresSamplesRepository(db)
	histRepo := NewPostgresHistoryRepository(db)

	sample, seed := newTestSample("test-user")
	defer cleanupSample(t, db, sample.ID)

	if err := repo.CreateSample(ctx, sample, seed); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		SampleID:  sample.ID,
		Status:    domain.StatusInTransit,
		Note:      "integration transition",
		CreatedBy: "test-manager",
		CreatedAt: time.Now().UTC(),
	}
	updated, err := repo.Transition(ctx, entry)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if updated.Status != domain.StatusInTransit {
		t.Fatalf("expected status in_transit, got %s", updated.Status)
	}

	entries, err := histRepo.ListHistory(ctx, sample.ID)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after transition, got %d", len(entries))
	}
	if entries[len(entries)-1].Status != updated.Status {
		t.Fatalf("ledger tail %s does not match sample status %s", entries[len(entries)-1].Status, updated.Status)
	}

	t.Logf("Transition success: id=%s status=%s entries=%d", updated.ID, updated.Status, len(entries))
}

func TestPostgresSamples_TransitionMissingSample(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewPostgresSamplesRepository(db)
	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		SampleID:  uuid.NewString(),
		Status:    domain.StatusStored,
		CreatedBy: "test-manager",
		CreatedAt: time.Now().UTC(),
	}

	_, err := repo.Transition(context.Background(), entry)
	if err == nil {
		t.Fatal("Transition should fail for a missing sample")
	}
	t.Logf("TransitionMissingSample success: error=%v", err)
}

func TestPostgresSamples_StatusCounts(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewPostgresSamplesRepository(db)

	sample, seed := newTestSample("test-user")
	defer cleanupSample(t, db, sample.ID)

	if err := repo.CreateSample(ctx, sample, seed); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	counts, err := repo.StatusCounts(ctx)
	if err != nil {
		t.Fatalf("StatusCounts failed: %v", err)
	}
	if counts[domain.StatusNew] < 1 {
		t.Fatalf("expected at least 1 sample in status new, got %d", counts[domain.StatusNew])
	}

	t.Logf("StatusCounts success: %v", counts)
}
