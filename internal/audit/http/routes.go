package audithttp

import (
	"github.com/go-chi/chi/v5"

	"github.com/minexboard/minex/internal/audit"
	"github.com/minexboard/minex/internal/rbac"
)

// MountRoutes registers the audit read endpoints, gated on the reports
// module. Reads of the trail are themselves audited.
func (h *Handler) MountRoutes(r chi.Router, interceptor *audit.Interceptor) {
	opts := audit.Options{
		EntityType:      "AuditTrail",
		RequiredModule:  rbac.ModuleReports,
		RequiredActions: []rbac.Action{rbac.ActionRead},
	}
	r.Group(func(r chi.Router) {
		r.Use(interceptor.Intercept(opts))
		r.Get("/", h.List)
		r.Get("/entity/{type}/{entityID}", h.ListForEntity)
		r.Get("/user/{userID}", h.ListForUser)
	})
}
