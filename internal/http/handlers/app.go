package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"portfolium/internal/cache"
	"portfolium/internal/domain"
	"portfolium/internal/generate"
	"portfolium/internal/infra"
	"portfolium/internal/middleware"
	"portfolium/internal/publish"
)

// App carries the wired dependencies all HTTP handlers share.
type App struct {
	Config     *infra.Config
	Logger     zerolog.Logger
	Jobs       *generate.Controller
	Portfolios domain.PortfolioRepository
	Gate       *publish.Gate
	Cache      *cache.PortfolioCache
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
