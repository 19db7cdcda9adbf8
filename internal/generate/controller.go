// Package generate owns the lifecycle of portfolio generation jobs:
// issuing IDs, spawning the background run, and funneling every
// outcome into exactly one terminal job-store write.
package generate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"portfolium/internal/domain"
	"portfolium/internal/jobstore"
)

// Runner produces a portfolio artifact for one job. Implemented by
// portfolio.Chain.
type Runner interface {
	Run(ctx context.Context, userInfo, modelHint string) (html, provider string, err error)
}

// Controller issues job IDs and runs generation without blocking the
// submitting request. Each job is written by exactly one goroutine,
// so per-record write-write races cannot occur.
type Controller struct {
	store  *jobstore.Store
	runner Runner
	logger zerolog.Logger
}

func NewController(store *jobstore.Store, runner Runner, logger zerolog.Logger) *Controller {
	return &Controller{store: store, runner: runner, logger: logger}
}

// Submit creates the job record and returns its ID as soon as the
// record exists; generation continues in the background. There is no
// cancellation: a submitted job always reaches a terminal state.
func (c *Controller) Submit(ctx context.Context, userInfo, modelHint string) (string, error) {
	now := time.Now().UTC()
	job := &domain.GenerationJob{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.Create(ctx, job); err != nil {
		return "", err
	}
	go c.run(job.ID, userInfo, modelHint)
	return job.ID, nil
}

// Status returns the current job record for polling clients.
func (c *Controller) Status(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	return c.store.Get(ctx, jobID)
}

// run is detached from the submitting request, so it carries its own
// context. It never panics outward and performs exactly one terminal
// write per job.
func (c *Controller) run(jobID, userInfo, modelHint string) {
	ctx := context.Background()
	terminal := false

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Str("job_id", jobID).Msg("generation panicked")
			if !terminal {
				c.fail(ctx, jobID, genericFailureMessage)
			}
		}
	}()

	html, provider, err := c.runner.Run(ctx, userInfo, modelHint)
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", jobID).Msg("generation failed")
		c.fail(ctx, jobID, ClassifyFailure(err))
		terminal = true
		return
	}

	if err := c.complete(ctx, jobID, html, provider); err != nil {
		c.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to record completed job")
	}
	terminal = true
}

// terminalWriteRetryDelay spaces the single retry of a terminal write.
const terminalWriteRetryDelay = 100 * time.Millisecond

// complete and fail retry a refused terminal write once. If the retry
// is also refused the job stays processing; like a mid-flight crash,
// that record is lost to the accepted single-process durability hole.
func (c *Controller) complete(ctx context.Context, jobID, html, provider string) error {
	if err := c.store.Complete(ctx, jobID, html, provider); err == nil {
		return nil
	}
	time.Sleep(terminalWriteRetryDelay)
	return c.store.Complete(ctx, jobID, html, provider)
}

func (c *Controller) fail(ctx context.Context, jobID, reason string) {
	if c.store.Fail(ctx, jobID, reason) == nil {
		return
	}
	time.Sleep(terminalWriteRetryDelay)
	if err := c.store.Fail(ctx, jobID, reason); err != nil {
		c.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to record failed job")
	}
}
