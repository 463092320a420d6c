package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/minexboard/minex/internal/auth"
	"github.com/minexboard/minex/internal/platform/httpx"
	"github.com/minexboard/minex/internal/rbac"
	"github.com/minexboard/minex/internal/shared"
)

// maxBodySnapshot bounds how much of a request body is captured in details.
const maxBodySnapshot = 1 << 20

// IdentityResolver resolves a bearer token to an identity. Satisfied by
// *auth.Service.
type IdentityResolver interface {
	LoadAndValidate(ctx context.Context, token string) (*shared.Identity, *auth.Claims, error)
}

// EntryRecorder persists audit entries. Satisfied by *Recorder.
type EntryRecorder interface {
	Record(ctx context.Context, e Entry) error
}

// IDResolver resolves the entity id for an intercepted request. Resolvers
// may block on work completing asynchronously; the interceptor just calls
// ResolveID and waits, so immediate and deferred delivery look the same.
type IDResolver interface {
	ResolveID(r *http.Request) (string, error)
}

// IDResolverFunc adapts a function to IDResolver.
type IDResolverFunc func(r *http.Request) (string, error)

// ResolveID implements IDResolver.
func (f IDResolverFunc) ResolveID(r *http.Request) (string, error) {
	return f(r)
}

// RouteParamID resolves the entity id from a chi route parameter.
func RouteParamID(name string) IDResolver {
	return IDResolverFunc(func(r *http.Request) (string, error) {
		return chi.URLParam(r, name), nil
	})
}

// Options configures one wrapped handler.
type Options struct {
	// EntityType names the audited entity, e.g. "JobCard".
	EntityType string
	// RequiredModule, when set, gates the handler on module access. Left
	// empty the wrapper only audits; identity failures are then attributed
	// to the unknown user instead of rejecting the request.
	RequiredModule rbac.Module
	// RequiredActions are additionally checked against RequiredModule.
	RequiredActions []rbac.Action
	// IDResolver overrides entity id resolution. When nil the interceptor
	// reads the "id" route parameter, then the last URL path segment.
	IDResolver IDResolver
}

// Interceptor wraps request handlers with identity resolution, optional
// permission gating and best-effort audit recording.
type Interceptor struct {
	logger     *slog.Logger
	identities IdentityResolver
	recorder   EntryRecorder
	cookieName string
	loginPath  string
}

// NewInterceptor constructs an Interceptor. loginPath names the one route
// whose creation verb bypasses identity resolution entirely.
func NewInterceptor(logger *slog.Logger, identities IdentityResolver, recorder EntryRecorder, cookieName, loginPath string) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{
		logger:     logger,
		identities: identities,
		recorder:   recorder,
		cookieName: cookieName,
		loginPath:  loginPath,
	}
}

// Intercept returns a chi-style middleware applying Wrap with the options.
func (i *Interceptor) Intercept(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return i.Wrap(opts, next)
	}
}

// Wrap produces a handler that resolves the caller, enforces the options'
// permission requirements, invokes next and records exactly one audit entry
// reflecting the outcome. The wrapped handler's response, and any panic it
// raises, pass through unchanged.
func (i *Interceptor) Wrap(opts Options, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No user exists yet to attribute a login to.
		if r.Method == http.MethodPost && r.URL.Path == i.loginPath {
			next.ServeHTTP(w, r)
			return
		}

		userID := UnknownUserID
		var role rbac.Role
		token := auth.ResolveToken(r, i.cookieName)
		identity, _, err := i.identities.LoadAndValidate(r.Context(), token)
		if err != nil {
			if opts.RequiredModule != "" {
				httpx.RespondError(w, err)
				return
			}
			// Audit-only wrappers keep serving; the entry is attributed
			// to the unknown user.
		} else {
			userID = identity.ID
			role = identity.Role
			r = r.WithContext(shared.ContextWithIdentity(r.Context(), identity))
		}

		if opts.RequiredModule != "" {
			if !rbac.HasModuleAccess(role, opts.RequiredModule) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden",
					fmt.Sprintf("role %s has no access to module %s", role, opts.RequiredModule))
				return
			}
			for _, action := range opts.RequiredActions {
				if !rbac.HasActionPermission(role, opts.RequiredModule, action) {
					httpx.Problem(w, http.StatusForbidden, "Forbidden",
						fmt.Sprintf("role %s is missing permission %s:%s", role, opts.RequiredModule, action))
					return
				}
			}
		}

		var details map[string]any
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			details = i.snapshotBody(r)
		}

		entry := Entry{
			UserID:     userID,
			Action:     ActionForMethod(r.Method),
			EntityType: opts.EntityType,
			Details:    details,
			IPAddress:  remoteIP(r),
			UserAgent:  r.UserAgent(),
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			entry.EntityID = i.resolveEntityID(r, opts)
			if rec := recover(); rec != nil {
				entry.Details = map[string]any{
					"error":        fmt.Sprint(rec),
					"originalData": details,
				}
				entry.Metadata = map[string]any{
					"url":    r.URL.String(),
					"method": r.Method,
					"status": http.StatusInternalServerError,
					"error":  true,
				}
				i.persist(r, entry)
				panic(rec)
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entry.Metadata = map[string]any{
				"url":    r.URL.String(),
				"method": r.Method,
				"status": status,
			}
			i.persist(r, entry)
		}()

		next.ServeHTTP(ww, r)
	})
}

// persist writes the entry best-effort: failures are logged and never reach
// the caller. The write context survives client disconnects.
func (i *Interceptor) persist(r *http.Request, entry Entry) {
	ctx := context.WithoutCancel(r.Context())
	if err := i.recorder.Record(ctx, entry); err != nil {
		i.logger.Error("audit record failed",
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.Any("error", err))
	}
}

// snapshotBody captures the request body for the audit details while leaving
// it fully readable for the wrapped handler. Any failure returns nil.
func (i *Interceptor) snapshotBody(r *http.Request) map[string]any {
	if r.Body == nil {
		return nil
	}
	buf, err := io.ReadAll(io.LimitReader(r.Body, maxBodySnapshot+1))
	if err != nil {
		r.Body = io.NopCloser(bytes.NewReader(buf))
		return nil
	}
	if len(buf) > maxBodySnapshot {
		// Too large to capture; hand everything read back to the handler.
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(buf), r.Body))
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(buf))
	var details map[string]any
	if err := json.Unmarshal(buf, &details); err != nil {
		return nil
	}
	return details
}

// resolveEntityID never fails: options resolver, then the "id" route
// parameter, then the last URL path segment, then "unknown".
func (i *Interceptor) resolveEntityID(r *http.Request, opts Options) string {
	if opts.IDResolver != nil {
		id, err := opts.IDResolver.ResolveID(r)
		if err != nil {
			i.logger.Warn("entity id resolver failed", slog.Any("error", err))
		} else if id != "" {
			return id
		}
	}
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}
	if seg := lastPathSegment(r.URL.Path); seg != "" {
		return seg
	}
	return UnknownEntityID
}

func lastPathSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	return parts[len(parts)-1]
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
