package shared

import (
	"context"

	"github.com/minexboard/minex/internal/rbac"
)

// Identity is the per-request projection of the authenticated user. It is
// never persisted; its lifetime is one request.
type Identity struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context, nil when absent.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}
