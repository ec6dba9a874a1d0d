package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Synthflow/internal/domain"
)

// BuildRepo — репозиторий истории сборок.
type BuildRepo struct {
	pool *pgxpool.Pool
}

// NewBuildRepo создаёт новый BuildRepo.
func NewBuildRepo(pool *pgxpool.Pool) *BuildRepo {
	return &BuildRepo{pool: pool}
}

// Create сохраняет новую запись.
func (r *BuildRepo) Create(ctx context.Context, b *domain.BuildRecord) error {
	stagesJSON, err := json.Marshal(b.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}

	query := `
		INSERT INTO builds (id, backend, project_dir, stages, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		b.ID,
		b.Backend,
		b.ProjectDir,
		stagesJSON,
		b.Status,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// GetByID возвращает запись по ID.
func (r *BuildRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BuildRecord, error) {
	query := `
		SELECT id, backend, project_dir, stages, status, report, error,
		       started_at, finished_at, created_at
		FROM builds
		WHERE id = $1
	`
	return scanBuild(r.pool.QueryRow(ctx, query, id))
}

// List возвращает записи с фильтрацией, новые первыми.
func (r *BuildRepo) List(ctx context.Context, filter BuildFilter) ([]domain.BuildRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `
		SELECT id, backend, project_dir, stages, status, report, error,
		       started_at, finished_at, created_at
		FROM builds
		WHERE ($1::text IS NULL OR backend = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.Backend),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []domain.BuildRecord
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

// Update сохраняет статус, отчёт и времена.
func (r *BuildRepo) Update(ctx context.Context, b *domain.BuildRecord) error {
	var reportJSON []byte
	if b.Report != nil {
		var err error
		reportJSON, err = json.Marshal(b.Report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
	}

	query := `
		UPDATE builds
		SET status = $2, report = $3, error = $4, started_at = $5, finished_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Status,
		reportJSON,
		nullString(b.Error),
		b.StartedAt,
		b.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update build: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

// BuildFilter — параметры фильтрации сборок.
type BuildFilter struct {
	Backend string
	Status  domain.BuildStatus
	Limit   int
	Offset  int
}

// NewBuildFilter собирает фильтр из пользовательского ввода.
// Имя backend хранится в нижнем регистре, статус в верхнем.
func NewBuildFilter(backend, status string, limit, offset int) BuildFilter {
	return BuildFilter{
		Backend: strings.ToLower(strings.TrimSpace(backend)),
		Status:  domain.BuildStatus(strings.ToUpper(strings.TrimSpace(status))),
		Limit:   limit,
		Offset:  offset,
	}
}

// scanBuild сканирует одну строку (pgx.Row или pgx.Rows) в BuildRecord.
func scanBuild(row pgx.Row) (*domain.BuildRecord, error) {
	var b domain.BuildRecord
	var stagesJSON, reportJSON []byte
	var buildError *string

	err := row.Scan(
		&b.ID,
		&b.Backend,
		&b.ProjectDir,
		&stagesJSON,
		&b.Status,
		&reportJSON,
		&buildError,
		&b.StartedAt,
		&b.FinishedAt,
		&b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan build: %w", err)
	}

	if err := decodeBuildJSON(&b, stagesJSON, reportJSON); err != nil {
		return nil, err
	}
	if buildError != nil {
		b.Error = *buildError
	}
	return &b, nil
}

func decodeBuildJSON(b *domain.BuildRecord, stagesJSON, reportJSON []byte) error {
	if len(stagesJSON) > 0 {
		if err := json.Unmarshal(stagesJSON, &b.Stages); err != nil {
			return fmt.Errorf("unmarshal stages: %w", err)
		}
	}
	if len(reportJSON) > 0 {
		b.Report = &domain.BuildReport{}
		if err := json.Unmarshal(reportJSON, b.Report); err != nil {
			return fmt.Errorf("unmarshal report: %w", err)
		}
	}
	return nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
