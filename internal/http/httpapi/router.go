package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"retouchd/internal/http/handlers"
	"retouchd/internal/infra"
	"retouchd/internal/middleware"
)

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N(cfg.DefaultLocale, lookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/edits", func(r chi.Router) {
		r.Post("/retouch", app.Retouch)
		r.Post("/filter", app.Filter)
		r.Post("/adjust", app.Adjust)
	})

	return r
}
