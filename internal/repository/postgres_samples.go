package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sampletrack/internal/domain"

	"github.com/lib/pq"
)

// PostgresSamplesRepository 样本 Repository 实现
type PostgresSamplesRepository struct {
	db *sql.DB
}

// NewPostgresSamplesRepository 创建样本 Repository
func NewPostgresSamplesRepository(db *sql.DB) *PostgresSamplesRepository {
	return &PostgresSamplesRepository{db: db}
}

// 确保实现了接口
var _ SamplesRepository = (*PostgresSamplesRepository)(nil)

const sampleColumns = `
	id::text,
	sample_id,
	patient_name,
	age,
	gender,
	status,
	collected_by::text,
	lab_id::text,
	qr_code_url,
	created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*domain.Sample, error) {
	var s domain.Sample
	var age sql.NullInt64
	var gender, collectedBy, labID, qrCodeURL sql.NullString

	err := row.Scan(
		&s.ID,
		&s.SampleID,
		&s.PatientName,
		&age,
		&gender,
		&s.Status,
		&collectedBy,
		&labID,
		&qrCodeURL,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int64)
		s.Age = &v
	}
	if gender.Valid {
		s.Gender = gender.String
	}
	if collectedBy.Valid {
		s.CollectedBy = collectedBy.String
	}
	if labID.Valid {
		s.LabID = labID.String
	}
	if qrCodeURL.Valid {
		s.QRCodeURL = qrCodeURL.String
	}

	return &s, nil
}

// isUniqueViolation 唯一约束冲突（sample_id 预检和约束双保险的后半段）
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateSample 插入样本行和首条账本记录（同一事务）
func (r *PostgresSamplesRepository) CreateSample(ctx context.Context, sample *domain.Sample, seed *domain.HistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Storef(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO samples (id, sample_id, patient_name, age, gender, status, collected_by, lab_id, qr_code_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sample.ID,
		sample.SampleID,
		sample.PatientName,
		nullInt(sample.Age),
		nullStr(sample.Gender),
		sample.Status,
		nullStr(sample.CollectedBy),
		nullStr(sample.LabID),
		nullStr(sample.QRCodeURL),
		sample.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validationf("sample_id %q already exists", sample.SampleID)
		}
		return domain.Storef(err, "failed to insert sample")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sample_history (id, sample_id, status, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		seed.ID,
		seed.SampleID,
		seed.Status,
		nullStr(seed.Note),
		nullStr(seed.CreatedBy),
		seed.CreatedAt,
	)
	if err != nil {
		return domain.Storef(err, "failed to insert seed history entry")
	}

	if err := tx.Commit(); err != nil {
		return domain.Storef(err, "failed to commit sample creation")
	}
	return nil
}

// GetSample 按主键获取样本
func (r *PostgresSamplesRepository) GetSample(ctx context.Context, id string) (*domain.Sample, error) {
	if id == "" {
		return nil, domain.NotFoundf("sample id is empty")
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+sampleColumns+` FROM samples WHERE id = $1`, id)
	s, err := scanSample(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("sample %s", id)
		}
		return nil, domain.Storef(err, "failed to get sample")
	}
	return s, nil
}

// SampleCodeExists 样本编码唯一性预检
func (r *PostgresSamplesRepository) SampleCodeExists(ctx context.Context, sampleCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM samples WHERE sample_id = $1)`, sampleCode,
	).Scan(&exists)
	if err != nil {
		return false, domain.Storef(err, "failed to check sample_id")
	}
	return exists, nil
}

// ListSamples 批量查询样本（支持过滤和分页）
func (r *PostgresSamplesRepository) ListSamples(ctx context.Context, filters *SampleFilters, page, size int) ([]*domain.Sample, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	argN := 1

	if filters != nil {
		if filters.Status != "" {
			where = append(where, fmt.Sprintf("status = $%d", argN))
			args = append(args, filters.Status)
			argN++
		}
		if filters.LabID != "" {
			where = append(where, fmt.Sprintf("lab_id = $%d", argN))
			args = append(args, filters.LabID)
			argN++
		}
		if filters.CollectedBy != "" {
			where = append(where, fmt.Sprintf("collected_by = $%d", argN))
			args = append(args, filters.CollectedBy)
			argN++
		}
		if filters.Search != "" {
			where = append(where, fmt.Sprintf("(sample_id ILIKE $%d OR patient_name ILIKE $%d)", argN, argN))
			args = append(args, "%"+escapeLike(filters.Search)+"%")
			argN++
		}
	}

	queryCount := `SELECT COUNT(*) FROM samples WHERE ` + strings.Join(where, " AND ")
	var total int
	if err := r.db.QueryRowContext(ctx, queryCount, args...).Scan(&total); err != nil {
		return nil, 0, domain.Storef(err, "failed to count samples")
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	query := `SELECT ` + sampleColumns + `
		FROM samples
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(argN) + ` OFFSET $` + fmt.Sprint(argN+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Storef(err, "failed to list samples")
	}
	defer rows.Close()

	samples := []*domain.Sample{}
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, 0, domain.Storef(err, "failed to scan sample")
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Storef(err, "failed to iterate samples")
	}

	return samples, total, nil
}

// Transition 原子地更新 samples.status 并追加账本记录。
// The row lock serializes concurrent transitions on the same sample, so the
// committed status always matches the newest ledger entry.
func (r *PostgresSamplesRepository) Transition(ctx context.Context, entry *domain.HistoryEntry) (*domain.Sample, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Storef(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+sampleColumns+` FROM samples WHERE id = $1 FOR UPDATE`, entry.SampleID)
	s, err := scanSample(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("sample %s", entry.SampleID)
		}
		return nil, domain.Storef(err, "failed to lock sample")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE samples SET status = $1 WHERE id = $2`, entry.Status, entry.SampleID); err != nil {
		return nil, domain.Storef(err, "failed to update sample status")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sample_history (id, sample_id, status, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID,
		entry.SampleID,
		entry.Status,
		nullStr(entry.Note),
		nullStr(entry.CreatedBy),
		entry.CreatedAt,
	); err != nil {
		return nil, domain.Storef(err, "failed to append history entry")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Storef(err, "failed to commit transition")
	}

	s.Status = entry.Status
	return s, nil
}

// StatusCounts 按状态统计样本数（单次 GROUP BY 扫描）
func (r *PostgresSamplesRepository) StatusCounts(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM samples GROUP BY status`)
	if err != nil {
		return nil, domain.Storef(err, "failed to count samples by status")
	}
	defer rows.Close()

	counts := map[domain.Status]int{}
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.Storef(err, "failed to scan status count")
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef(err, "failed to iterate status counts")
	}
	return counts, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// escapeLike 转义 ILIKE 通配符，searchTerm 按字面子串匹配
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
