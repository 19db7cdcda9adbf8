package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"portfolium/internal/adapter/repo"
	"portfolium/internal/cache"
	"portfolium/internal/domain"
	"portfolium/internal/generate"
	"portfolium/internal/infra"
	"portfolium/internal/jobstore"
	"portfolium/internal/middleware"
	"portfolium/internal/publish"
)

// memPortfolioRepo is an in-memory domain.PortfolioRepository for
// handler tests.
type memPortfolioRepo struct {
	mu     sync.Mutex
	byUser map[string]*domain.Portfolio
}

func newMemPortfolioRepo() *memPortfolioRepo {
	return &memPortfolioRepo{byUser: make(map[string]*domain.Portfolio)}
}

func (m *memPortfolioRepo) Create(_ context.Context, p *domain.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *p
	m.byUser[p.UserID] = &clone
	return nil
}

func (m *memPortfolioRepo) Update(_ context.Context, p *domain.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	clone := *p
	m.byUser[p.UserID] = &clone
	return nil
}

func (m *memPortfolioRepo) GetBySubdomain(_ context.Context, subdomain string) (*domain.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byUser {
		if p.Subdomain == subdomain {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPortfolioRepo) GetByUserID(_ context.Context, userID string) (*domain.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *memPortfolioRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	_, err := m.GetBySubdomain(ctx, subdomain)
	if err == nil {
		return true, nil
	}
	if err == domain.ErrNotFound {
		return false, nil
	}
	return false, err
}

func (m *memPortfolioRepo) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byUser, userID)
	return nil
}

// recordingRunner returns canned output and remembers the last input.
type recordingRunner struct {
	mu       sync.Mutex
	html     string
	provider string
	err      error
	userInfo string
}

func (r *recordingRunner) Run(_ context.Context, userInfo, _ string) (string, string, error) {
	r.mu.Lock()
	r.userInfo = userInfo
	r.mu.Unlock()
	return r.html, r.provider, r.err
}

func (r *recordingRunner) lastUserInfo() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userInfo
}

func newTestApp(runner generate.Runner) (*App, *memPortfolioRepo) {
	portfolios := newMemPortfolioRepo()
	store := jobstore.New(repo.NewJobRepositoryMemory(), repo.NewJobRepositoryMemory(), zerolog.Nop())
	return &App{
		Config:     &infra.Config{RootDomain: "example.org"},
		Logger:     zerolog.Nop(),
		Jobs:       generate.NewController(store, runner, zerolog.Nop()),
		Portfolios: portfolios,
		Gate:       publish.NewGate(portfolios),
		Cache:      cache.NewPortfolioCache(nil, zerolog.Nop()),
	}, portfolios
}

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func pollStatus(t *testing.T, a *App, jobID string) jobStatusResponse {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("job never reached a terminal state")
		default:
		}
		req := httptest.NewRequest(http.MethodGet, "/api/generate-portfolio/status?jobId="+jobID, nil)
		rec := httptest.NewRecorder()
		a.GenerateStatus(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status endpoint returned %d: %s", rec.Code, rec.Body.String())
		}
		var resp jobStatusResponse
		decode(t, rec, &resp)
		if resp.Status == string(domain.JobStatusCompleted) || resp.Status == string(domain.JobStatusFailed) {
			return resp
		}
		time.Sleep(5 * time.Millisecond)
	}
}
