package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"portfolium/internal/http/handlers"
	"portfolium/internal/middleware"
)

// NewRouter assembles the HTTP surface. The returned handler is
// wrapped in the wildcard-subdomain rewrite, so portfolio hosts land
// on the render route before chi sees the request.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(app.Config.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(app.Config.AllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/portfolio/{subdomain}", app.RenderPortfolio)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", app.ListModels)
		r.Get("/check-subdomain", app.CheckSubdomain)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(app.Config.SessionSecret))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
				r.Post("/generate-portfolio", app.GeneratePortfolio)
			})
			r.Get("/generate-portfolio/status", app.GenerateStatus)

			r.Post("/save-portfolio", app.SavePortfolio)
			r.Get("/portfolio", app.GetPortfolio)
			r.Delete("/portfolio", app.DeletePortfolio)
		})
	})

	return middleware.SubdomainRewrite(app.Config.RootDomain)(r)
}
