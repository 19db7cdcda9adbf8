package generate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"portfolium/internal/adapter/repo"
	"portfolium/internal/domain"
	"portfolium/internal/jobstore"
	"portfolium/internal/providers/portfolio"
)

type fakeRunner struct {
	html     string
	provider string
	err      error
	release  chan struct{}
}

func (f *fakeRunner) Run(context.Context, string, string) (string, string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.html, f.provider, f.err
}

func newMemoryStore() *jobstore.Store {
	return jobstore.New(repo.NewJobRepositoryMemory(), repo.NewJobRepositoryMemory(), zerolog.Nop())
}

func waitForTerminal(t *testing.T, c *Controller, jobID string) *domain.GenerationJob {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("job never reached a terminal state")
		default:
		}
		job, err := c.Status(context.Background(), jobID)
		if err != nil {
			t.Fatalf("Status returned error: %v", err)
		}
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubmitReturnsBeforeGenerationFinishes(t *testing.T) {
	runner := &fakeRunner{html: "<html></html>", provider: "gemini", release: make(chan struct{})}
	c := NewController(newMemoryStore(), runner, zerolog.Nop())

	start := time.Now()
	jobID, err := c.Submit(context.Background(), "bio", "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Submit blocked for %s", elapsed)
	}

	job, err := c.Status(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if job.Status != domain.JobStatusProcessing {
		t.Fatalf("status = %q, want %q", job.Status, domain.JobStatusProcessing)
	}

	close(runner.release)
	final := waitForTerminal(t, c, jobID)
	if final.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %q, want %q", final.Status, domain.JobStatusCompleted)
	}
	if final.Provider != "gemini" {
		t.Fatalf("provider = %q, want %q", final.Provider, "gemini")
	}
	if final.Portfolio != "<html></html>" {
		t.Fatalf("portfolio = %q", final.Portfolio)
	}
}

func TestFailureWritesClassifiedReason(t *testing.T) {
	runner := &fakeRunner{err: portfolio.ErrAllProvidersExhausted}
	c := NewController(newMemoryStore(), runner, zerolog.Nop())

	jobID, err := c.Submit(context.Background(), "bio", "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	job := waitForTerminal(t, c, jobID)
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %q, want %q", job.Status, domain.JobStatusFailed)
	}
	want := "All AI providers are currently unavailable. Please try again later."
	if job.FailureReason != want {
		t.Fatalf("failure reason = %q, want %q", job.FailureReason, want)
	}
}

func TestTerminalRecordIsStableAcrossPolls(t *testing.T) {
	runner := &fakeRunner{html: "<html>done</html>", provider: "groq"}
	c := NewController(newMemoryStore(), runner, zerolog.Nop())

	jobID, err := c.Submit(context.Background(), "bio", "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	first := waitForTerminal(t, c, jobID)
	for i := 0; i < 3; i++ {
		again, err := c.Status(context.Background(), jobID)
		if err != nil {
			t.Fatalf("Status returned error: %v", err)
		}
		if *again != *first {
			t.Fatalf("poll %d differs: %#v vs %#v", i, again, first)
		}
	}
}

func TestStatusUnknownJob(t *testing.T) {
	c := NewController(newMemoryStore(), &fakeRunner{}, zerolog.Nop())
	if _, err := c.Status(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// flakyTerminalRepo refuses the first n terminal writes, then behaves
// like its embedded memory repository.
type flakyTerminalRepo struct {
	*repo.JobRepositoryMemory
	refusals int32
}

func (f *flakyTerminalRepo) MarkCompleted(ctx context.Context, jobID, portfolio, provider string) error {
	if atomic.AddInt32(&f.refusals, -1) >= 0 {
		return errors.New("transient write failure")
	}
	return f.JobRepositoryMemory.MarkCompleted(ctx, jobID, portfolio, provider)
}

func (f *flakyTerminalRepo) MarkFailed(ctx context.Context, jobID, reason string) error {
	if atomic.AddInt32(&f.refusals, -1) >= 0 {
		return errors.New("transient write failure")
	}
	return f.JobRepositoryMemory.MarkFailed(ctx, jobID, reason)
}

func TestTerminalWriteRetriesOnce(t *testing.T) {
	durable := &flakyTerminalRepo{JobRepositoryMemory: repo.NewJobRepositoryMemory(), refusals: 1}
	store := jobstore.New(durable, repo.NewJobRepositoryMemory(), zerolog.Nop())
	runner := &fakeRunner{html: "<html></html>", provider: "gemini"}
	c := NewController(store, runner, zerolog.Nop())

	jobID, err := c.Submit(context.Background(), "bio", "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	job := waitForTerminal(t, c, jobID)
	if job.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %q, want %q", job.Status, domain.JobStatusCompleted)
	}
}

func TestFailedTerminalWriteRetriesOnce(t *testing.T) {
	durable := &flakyTerminalRepo{JobRepositoryMemory: repo.NewJobRepositoryMemory(), refusals: 1}
	store := jobstore.New(durable, repo.NewJobRepositoryMemory(), zerolog.Nop())
	runner := &fakeRunner{err: portfolio.ErrAllProvidersExhausted}
	c := NewController(store, runner, zerolog.Nop())

	jobID, err := c.Submit(context.Background(), "bio", "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	job := waitForTerminal(t, c, jobID)
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %q, want %q", job.Status, domain.JobStatusFailed)
	}
}

func TestSubmitPropagatesStoreFailure(t *testing.T) {
	// Both backends refusing writes is the only way Submit can fail.
	failing := &refusingRepository{err: fmt.Errorf("disk full")}
	store := jobstore.New(failing, failing, zerolog.Nop())
	c := NewController(store, &fakeRunner{}, zerolog.Nop())

	if _, err := c.Submit(context.Background(), "bio", ""); err == nil {
		t.Fatal("Submit succeeded with no writable backend")
	}
}

type refusingRepository struct {
	err error
}

func (r *refusingRepository) Create(context.Context, *domain.GenerationJob) error { return r.err }

func (r *refusingRepository) GetByID(context.Context, string) (*domain.GenerationJob, error) {
	return nil, r.err
}

func (r *refusingRepository) MarkCompleted(context.Context, string, string, string) error {
	return r.err
}

func (r *refusingRepository) MarkFailed(context.Context, string, string) error { return r.err }
