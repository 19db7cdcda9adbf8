package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolium/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository backed by PostgreSQL.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new job record in processing state.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.GenerationJob) error {
	query := `
INSERT INTO generation_jobs (id, status, portfolio, provider, failure_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		job.Portfolio,
		job.Provider,
		job.FailureReason,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	query := `
SELECT id, status, portfolio, provider, failure_reason, created_at, updated_at
FROM generation_jobs
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, jobID)
	var job domain.GenerationJob
	if err := row.Scan(
		&job.ID,
		&job.Status,
		&job.Portfolio,
		&job.Provider,
		&job.FailureReason,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// MarkCompleted transitions a processing job to completed. The WHERE
// clause guards terminality: a terminal row is never rewritten.
func (r *JobRepositoryPG) MarkCompleted(ctx context.Context, jobID, portfolio, provider string) error {
	query := `
UPDATE generation_jobs
SET status = $2,
    portfolio = $3,
    provider = $4,
    updated_at = NOW()
WHERE id = $1 AND status = $5;
`
	tag, err := r.pool.Exec(ctx, query, jobID, domain.JobStatusCompleted, portfolio, provider, domain.JobStatusProcessing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, jobID)
	}
	return nil
}

// MarkFailed transitions a processing job to failed with a classified reason.
func (r *JobRepositoryPG) MarkFailed(ctx context.Context, jobID, reason string) error {
	query := `
UPDATE generation_jobs
SET status = $2,
    failure_reason = $3,
    updated_at = NOW()
WHERE id = $1 AND status = $4;
`
	tag, err := r.pool.Exec(ctx, query, jobID, domain.JobStatusFailed, reason, domain.JobStatusProcessing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, jobID)
	}
	return nil
}

func (r *JobRepositoryPG) transitionConflict(ctx context.Context, jobID string) error {
	if _, err := r.GetByID(ctx, jobID); err != nil {
		return err
	}
	return domain.ErrJobTerminal
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
