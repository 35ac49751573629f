package repository

import (
	"context"
	"database/sql"

	"sampletrack/internal/domain"
)

// PostgresLabsRepository 采集实验室 Repository 实现
type PostgresLabsRepository struct {
	db *sql.DB
}

// NewPostgresLabsRepository 创建实验室 Repository
func NewPostgresLabsRepository(db *sql.DB) *PostgresLabsRepository {
	return &PostgresLabsRepository{db: db}
}

// 确保实现了接口
var _ LabsRepository = (*PostgresLabsRepository)(nil)

const labColumns = `
	id::text,
	name,
	location,
	active,
	created_by::text,
	created_at
`

func scanLab(row rowScanner) (*domain.Lab, error) {
	var l domain.Lab
	var location, createdBy sql.NullString
	err := row.Scan(&l.LabID, &l.Name, &location, &l.Active, &createdBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if location.Valid {
		l.Location = location.String
	}
	if createdBy.Valid {
		l.CreatedBy = createdBy.String
	}
	return &l, nil
}

// CreateLab 创建实验室
func (r *PostgresLabsRepository) CreateLab(ctx context.Context, lab *domain.Lab) (string, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO labs (id, name, location, active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		lab.LabID,
		lab.Name,
		nullStr(lab.Location),
		lab.Active,
		nullStr(lab.CreatedBy),
		lab.CreatedAt,
	)
	if err != nil {
		return "", domain.Storef(err, "failed to insert lab")
	}
	return lab.LabID, nil
}

// GetLab 按主键获取实验室
func (r *PostgresLabsRepository) GetLab(ctx context.Context, labID string) (*domain.Lab, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+labColumns+` FROM labs WHERE id = $1`, labID)
	l, err := scanLab(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("lab %s", labID)
		}
		return nil, domain.Storef(err, "failed to get lab")
	}
	return l, nil
}

// ListLabs 按名称排序返回实验室
func (r *PostgresLabsRepository) ListLabs(ctx context.Context, activeOnly bool) ([]*domain.Lab, error) {
	query := `SELECT ` + labColumns + ` FROM labs`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.Storef(err, "failed to list labs")
	}
	defer rows.Close()

	labs := []*domain.Lab{}
	for rows.Next() {
		l, err := scanLab(rows)
		if err != nil {
			return nil, domain.Storef(err, "failed to scan lab")
		}
		labs = append(labs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef(err, "failed to iterate labs")
	}
	return labs, nil
}

// SetLabActive 启用/停用实验室
func (r *PostgresLabsRepository) SetLabActive(ctx context.Context, labID string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE labs SET active = $1 WHERE id = $2`, active, labID)
	if err != nil {
		return domain.Storef(err, "failed to update lab status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("lab %s", labID)
	}
	return nil
}

// CountSamplesByLab 统计某实验室采集的样本数
func (r *PostgresLabsRepository) CountSamplesByLab(ctx context.Context, labID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE lab_id = $1`, labID,
	).Scan(&n)
	if err != nil {
		return 0, domain.Storef(err, "failed to count lab samples")
	}
	return n, nil
}
