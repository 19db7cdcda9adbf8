package repo

import (
	"context"
	"sync"
	"time"

	"portfolium/internal/domain"
)

// JobRepositoryMemory is the process-local fallback implementation of
// domain.JobRepository. Records held here are invisible to other
// processes and lost on restart.
type JobRepositoryMemory struct {
	mu   sync.RWMutex
	jobs map[string]*domain.GenerationJob
}

// NewJobRepositoryMemory creates an empty in-memory job repository.
func NewJobRepositoryMemory() *JobRepositoryMemory {
	return &JobRepositoryMemory{jobs: make(map[string]*domain.GenerationJob)}
}

// Create stores a copy of the job record.
func (r *JobRepositoryMemory) Create(_ context.Context, job *domain.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

// GetByID returns a copy of the stored record or domain.ErrNotFound.
func (r *JobRepositoryMemory) GetByID(_ context.Context, jobID string) (*domain.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

// MarkCompleted transitions a processing job to completed.
func (r *JobRepositoryMemory) MarkCompleted(_ context.Context, jobID, portfolio, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if job.Status.Terminal() {
		return domain.ErrJobTerminal
	}
	job.Status = domain.JobStatusCompleted
	job.Portfolio = portfolio
	job.Provider = provider
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions a processing job to failed.
func (r *JobRepositoryMemory) MarkFailed(_ context.Context, jobID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if job.Status.Terminal() {
		return domain.ErrJobTerminal
	}
	job.Status = domain.JobStatusFailed
	job.FailureReason = reason
	job.UpdatedAt = time.Now().UTC()
	return nil
}

var _ domain.JobRepository = (*JobRepositoryMemory)(nil)
