package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/brightsteps/brightsteps/internal/shared"
)

// MountRoutes registers the landing page, dashboard, article and API endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(20, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleLanding)
	r.Get("/dashboard/clients/{id}", h.handleSelect)
	r.With(limiter).Get("/dashboard/clients/{id}/export.csv", h.handleCSV)
	r.Post("/theme/toggle", h.handleThemeToggle)
	r.Get("/articles/{slug}", h.handleArticle)

	r.Route("/api", func(api chi.Router) {
		api.Get("/clients", h.apiClients)
		api.Get("/clients/{id}/kpi", h.apiKPI)
		api.Get("/charts", h.apiCharts)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.ID != "" {
		return "visitor:" + sess.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
