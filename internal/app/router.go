package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/minexboard/minex/internal/audit"
	audithttp "github.com/minexboard/minex/internal/audit/http"
	"github.com/minexboard/minex/internal/auth"
	"github.com/minexboard/minex/internal/invoices"
	"github.com/minexboard/minex/internal/jobcards"
	"github.com/minexboard/minex/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger                *slog.Logger
	Config                *Config
	Interceptor           *audit.Interceptor
	AuthHandler           *auth.Handler
	AuditHandler          *audithttp.Handler
	JobCardHandler        *jobcards.Handler
	LargeScaleCardHandler *jobcards.Handler
	InvoiceHandler        *invoices.Handler
	Metrics               *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		if params.Interceptor != nil {
			// Audit-only: no module gate. The login POST itself is bypassed
			// inside the interceptor since no user exists to attribute it to.
			r.Use(params.Interceptor.Intercept(audit.Options{EntityType: "Auth"}))
		}
		params.AuthHandler.MountRoutes(r)
	})
	if params.JobCardHandler != nil {
		r.Route("/job-cards", func(r chi.Router) {
			if params.LargeScaleCardHandler != nil {
				r.Route("/large-scale", func(r chi.Router) {
					params.LargeScaleCardHandler.MountRoutes(r, params.Interceptor)
				})
			}
			params.JobCardHandler.MountRoutes(r, params.Interceptor)
		})
	}
	if params.InvoiceHandler != nil {
		r.Route("/invoices", func(r chi.Router) {
			params.InvoiceHandler.MountRoutes(r, params.Interceptor)
		})
	}
	if params.AuditHandler != nil {
		r.Route("/audit", func(r chi.Router) {
			params.AuditHandler.MountRoutes(r, params.Interceptor)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
