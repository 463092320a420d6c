package jobcards

import (
	"github.com/go-chi/chi/v5"

	"github.com/minexboard/minex/internal/audit"
	"github.com/minexboard/minex/internal/rbac"
)

// MountRoutes registers the small-scale job card routes, each wrapped with
// the audit interceptor and gated per action.
func (h *Handler) MountRoutes(r chi.Router, interceptor *audit.Interceptor) {
	module := rbac.ModuleJobCards
	if h.largeScale {
		module = rbac.ModuleJobCardsLargeScale
	}
	wrap := func(actions ...rbac.Action) audit.Options {
		return audit.Options{
			EntityType:      "JobCard",
			RequiredModule:  module,
			RequiredActions: actions,
		}
	}

	r.With(interceptor.Intercept(wrap(rbac.ActionRead))).Get("/", h.List)
	r.With(interceptor.Intercept(wrap(rbac.ActionCreate))).Post("/", h.Create)
	r.With(interceptor.Intercept(wrap(rbac.ActionRead))).Get("/{id}", h.Get)
	r.With(interceptor.Intercept(wrap(rbac.ActionUpdate))).Put("/{id}", h.Update)
	r.With(interceptor.Intercept(wrap(rbac.ActionDelete))).Delete("/{id}", h.Delete)
}
