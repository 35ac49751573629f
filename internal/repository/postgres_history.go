package repository

import (
	"context"
	"database/sql"

	"sampletrack/internal/domain"
)

// PostgresHistoryRepository 状态账本 Repository 实现
type PostgresHistoryRepository struct {
	db *sql.DB
}

// NewPostgresHistoryRepository 创建状态账本 Repository
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// 确保实现了接口
var _ HistoryRepository = (*PostgresHistoryRepository)(nil)

// AppendEntry 追加一条账本记录
func (r *PostgresHistoryRepository) AppendEntry(ctx context.Context, entry *domain.HistoryEntry) (string, error) {
	// 预检样本存在，缺失时返回 NotFound 而不是外键冲突
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM samples WHERE id = $1)`, entry.SampleID,
	).Scan(&exists)
	if err != nil {
		return "", domain.Storef(err, "failed to check sample")
	}
	if !exists {
		return "", domain.NotFoundf("sample %s", entry.SampleID)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sample_history (id, sample_id, status, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID,
		entry.SampleID,
		entry.Status,
		nullStr(entry.Note),
		nullStr(entry.CreatedBy),
		entry.CreatedAt,
	)
	if err != nil {
		return "", domain.Storef(err, "failed to append history entry")
	}
	return entry.ID, nil
}

// ListHistory 按 created_at 升序返回账本记录
func (r *PostgresHistoryRepository) ListHistory(ctx context.Context, sampleID string) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id::text,
			sample_id::text,
			status,
			note,
			created_by::text,
			created_at
		FROM sample_history
		WHERE sample_id = $1
		ORDER BY created_at ASC, id ASC`,
		sampleID,
	)
	if err != nil {
		return nil, domain.Storef(err, "failed to list history")
	}
	defer rows.Close()

	entries := []*domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		var note, createdBy sql.NullString
		if err := rows.Scan(&e.ID, &e.SampleID, &e.Status, &note, &createdBy, &e.CreatedAt); err != nil {
			return nil, domain.Storef(err, "failed to scan history entry")
		}
		if note.Valid {
			e.Note = note.String
		}
		if createdBy.Valid {
			e.CreatedBy = createdBy.String
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef(err, "failed to iterate history")
	}
	return entries, nil
}
