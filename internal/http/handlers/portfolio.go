package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolium/internal/domain"
	"portfolium/internal/publish"
)

type checkSubdomainResponse struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type savePortfolioRequest struct {
	Subdomain   string `json:"subdomain"`
	HTMLContent string `json:"htmlContent"`
}

type savePortfolioResponse struct {
	Success     bool   `json:"success"`
	PortfolioID string `json:"portfolioId"`
	URL         string `json:"url"`
}

type portfolioResponse struct {
	ID        string    `json:"id"`
	Subdomain string    `json:"subdomain"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckSubdomain reports whether a subdomain may be claimed. Rule
// rejections come back as 200 with available=false so the frontend
// can show the reason inline; only a backend lookup failure is a 5xx.
func (a *App) CheckSubdomain(w http.ResponseWriter, r *http.Request) {
	subdomain := strings.TrimSpace(r.URL.Query().Get("subdomain"))
	if subdomain == "" {
		a.error(w, http.StatusBadRequest, "subdomain query parameter is required")
		return
	}

	err := a.Gate.Check(r.Context(), subdomain)
	switch {
	case err == nil:
		a.json(w, http.StatusOK, checkSubdomainResponse{Available: true})
	case errors.Is(err, publish.ErrAvailabilityCheck):
		a.Logger.Error().Err(err).Str("subdomain", subdomain).Msg("subdomain availability check failed")
		a.error(w, http.StatusInternalServerError, publish.ErrAvailabilityCheck.Error())
	default:
		a.json(w, http.StatusOK, checkSubdomainResponse{Available: false, Error: err.Error()})
	}
}

// SavePortfolio publishes generated HTML under a subdomain. Each user
// owns at most one portfolio; saving again updates it in place, and
// re-claiming your own subdomain is always allowed.
func (a *App) SavePortfolio(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "Authentication required. Please log in.")
		return
	}

	var req savePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	subdomain := strings.TrimSpace(req.Subdomain)
	if req.HTMLContent == "" {
		a.error(w, http.StatusBadRequest, "htmlContent is required")
		return
	}
	if err := publish.ValidateFormat(subdomain); err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := a.Portfolios.GetBySubdomain(r.Context(), subdomain)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.Logger.Error().Err(err).Str("subdomain", subdomain).Msg("subdomain ownership lookup failed")
		a.error(w, http.StatusInternalServerError, "Failed to save portfolio. Please try again.")
		return
	}
	if existing != nil && existing.UserID != userID {
		a.error(w, http.StatusBadRequest, publish.ErrSubdomainTaken.Error())
		return
	}

	now := time.Now().UTC()
	mine, err := a.Portfolios.GetByUserID(r.Context(), userID)
	switch {
	case err == nil:
		previousSubdomain := mine.Subdomain
		mine.Subdomain = subdomain
		mine.HTMLContent = req.HTMLContent
		mine.UpdatedAt = now
		if err := a.Portfolios.Update(r.Context(), mine); err != nil {
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to update portfolio")
			a.error(w, http.StatusInternalServerError, "Failed to save portfolio. Please try again.")
			return
		}
		if previousSubdomain != subdomain {
			a.Cache.Invalidate(r.Context(), previousSubdomain)
		}
		a.Cache.Invalidate(r.Context(), subdomain)
		a.json(w, http.StatusOK, savePortfolioResponse{
			Success:     true,
			PortfolioID: mine.ID,
			URL:         a.portfolioURL(subdomain),
		})
	case errors.Is(err, domain.ErrNotFound):
		p := &domain.Portfolio{
			ID:          uuid.NewString(),
			UserID:      userID,
			Subdomain:   subdomain,
			HTMLContent: req.HTMLContent,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := a.Portfolios.Create(r.Context(), p); err != nil {
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to create portfolio")
			a.error(w, http.StatusInternalServerError, "Failed to save portfolio. Please try again.")
			return
		}
		a.Cache.Invalidate(r.Context(), subdomain)
		a.json(w, http.StatusOK, savePortfolioResponse{
			Success:     true,
			PortfolioID: p.ID,
			URL:         a.portfolioURL(subdomain),
		})
	default:
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to load portfolio")
		a.error(w, http.StatusInternalServerError, "Failed to save portfolio. Please try again.")
	}
}

// GetPortfolio returns the caller's published portfolio metadata.
func (a *App) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "Authentication required. Please log in.")
		return
	}

	p, err := a.Portfolios.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "No portfolio found")
			return
		}
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to load portfolio")
		a.error(w, http.StatusInternalServerError, "Failed to load portfolio.")
		return
	}

	a.json(w, http.StatusOK, portfolioResponse{
		ID:        p.ID,
		Subdomain: p.Subdomain,
		URL:       a.portfolioURL(p.Subdomain),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}

// DeletePortfolio unpublishes the caller's portfolio.
func (a *App) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "Authentication required. Please log in.")
		return
	}

	p, err := a.Portfolios.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "No portfolio found")
			return
		}
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to load portfolio")
		a.error(w, http.StatusInternalServerError, "Failed to delete portfolio.")
		return
	}

	if err := a.Portfolios.DeleteByUserID(r.Context(), userID); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete portfolio")
		a.error(w, http.StatusInternalServerError, "Failed to delete portfolio.")
		return
	}
	a.Cache.Invalidate(r.Context(), p.Subdomain)

	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

// RenderPortfolio serves the published HTML for a subdomain. Requests
// arrive here either directly or rewritten from a wildcard host.
func (a *App) RenderPortfolio(w http.ResponseWriter, r *http.Request) {
	subdomain := strings.ToLower(chi.URLParam(r, "subdomain"))
	if publish.ValidateFormat(subdomain) != nil {
		a.renderNotFound(w)
		return
	}

	if html, ok := a.Cache.GetHTML(r.Context(), subdomain); ok {
		a.renderHTML(w, html)
		return
	}

	p, err := a.Portfolios.GetBySubdomain(r.Context(), subdomain)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.renderNotFound(w)
			return
		}
		a.Logger.Error().Err(err).Str("subdomain", subdomain).Msg("failed to load portfolio for rendering")
		http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
		return
	}

	a.Cache.SetHTML(r.Context(), subdomain, p.HTMLContent)
	a.renderHTML(w, p.HTMLContent)
}

// renderHTML writes stored portfolio HTML verbatim. The content is a
// complete document produced by the generation pipeline.
func (a *App) renderHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (a *App) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundPage))
}

func (a *App) portfolioURL(subdomain string) string {
	return fmt.Sprintf("https://%s.%s", subdomain, a.Config.RootDomain)
}

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Portfolio Not Found</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; background: #f8fafc; color: #0f172a; }
main { text-align: center; }
h1 { font-size: 2rem; margin-bottom: 0.5rem; }
p { color: #475569; }
</style>
</head>
<body>
<main>
<h1>Portfolio Not Found</h1>
<p>There is no published portfolio at this address.</p>
</main>
</body>
</html>
`
