// Package jobstore maps job IDs to job records across two backends: a
// durable repository (preferred) and a process-local one used when the
// durable backend is unreachable at creation time.
//
// Known limitation: a job that falls back to memory at creation stays
// in memory for its whole life, even if the durable backend recovers.
// Such jobs are invisible to other processes and lost on restart.
package jobstore

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"portfolium/internal/domain"
)

// Store routes job reads and writes between a durable and an in-memory
// repository. Each job is pinned to the backend that accepted its
// creation; all later writes for that job target the same backend.
type Store struct {
	durable domain.JobRepository
	memory  domain.JobRepository
	logger  zerolog.Logger

	mu       sync.Mutex
	inMemory map[string]struct{}
}

// New creates a store preferring durable and falling back to memory.
func New(durable, memory domain.JobRepository, logger zerolog.Logger) *Store {
	return &Store{
		durable:  durable,
		memory:   memory,
		logger:   logger,
		inMemory: make(map[string]struct{}),
	}
}

// Create persists a new job record. Any durable-backend failure,
// including a missing table, falls back to the in-memory repository
// and pins the job there for its lifetime.
func (s *Store) Create(ctx context.Context, job *domain.GenerationJob) error {
	if err := s.durable.Create(ctx, job); err != nil {
		s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("jobstore: durable create failed, using in-memory fallback")
		if memErr := s.memory.Create(ctx, job); memErr != nil {
			return memErr
		}
		s.pin(job.ID)
	}
	return nil
}

// Get reads a job record, durable backend first. A failed durable
// lookup, transient or not-found alike, falls through to memory.
func (s *Store) Get(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	job, err := s.durable.GetByID(ctx, jobID)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("jobstore: durable lookup failed, checking in-memory fallback")
	}
	job, memErr := s.memory.GetByID(ctx, jobID)
	if memErr != nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// Complete writes the terminal completed state to the job's owning backend.
func (s *Store) Complete(ctx context.Context, jobID, portfolio, provider string) error {
	return s.backendFor(jobID).MarkCompleted(ctx, jobID, portfolio, provider)
}

// Fail writes the terminal failed state to the job's owning backend.
func (s *Store) Fail(ctx context.Context, jobID, reason string) error {
	return s.backendFor(jobID).MarkFailed(ctx, jobID, reason)
}

func (s *Store) pin(jobID string) {
	s.mu.Lock()
	s.inMemory[jobID] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) backendFor(jobID string) domain.JobRepository {
	s.mu.Lock()
	_, pinned := s.inMemory[jobID]
	s.mu.Unlock()
	if pinned {
		return s.memory
	}
	return s.durable
}
