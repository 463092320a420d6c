package invoices

import (
	"github.com/go-chi/chi/v5"

	"github.com/minexboard/minex/internal/audit"
	"github.com/minexboard/minex/internal/rbac"
)

// MountRoutes registers the invoice routes under the payment receipting
// module, each wrapped with the audit interceptor.
func (h *Handler) MountRoutes(r chi.Router, interceptor *audit.Interceptor) {
	wrap := func(actions ...rbac.Action) audit.Options {
		return audit.Options{
			EntityType:      "Invoice",
			RequiredModule:  rbac.ModulePaymentReceipting,
			RequiredActions: actions,
		}
	}

	r.With(interceptor.Intercept(wrap(rbac.ActionRead))).Get("/", h.List)
	r.With(interceptor.Intercept(wrap(rbac.ActionCreate))).Post("/", h.Create)
	r.With(interceptor.Intercept(wrap(rbac.ActionRead))).Get("/{id}", h.Get)
	r.With(interceptor.Intercept(wrap(rbac.ActionUpdate))).Post("/{id}/pay", h.MarkPaid)
}
