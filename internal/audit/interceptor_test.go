package audit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minexboard/minex/internal/auth"
	"github.com/minexboard/minex/internal/rbac"
	"github.com/minexboard/minex/internal/shared"
	_ "github.com/minexboard/minex/testing"
)

type stubIdentities struct {
	identities map[string]*shared.Identity
	calls      int
}

func (s *stubIdentities) LoadAndValidate(ctx context.Context, token string) (*shared.Identity, *auth.Claims, error) {
	s.calls++
	if token == "" {
		return nil, nil, auth.ErrNoToken
	}
	identity, ok := s.identities[token]
	if !ok {
		return nil, nil, auth.ErrTokenInvalid
	}
	return identity, &auth.Claims{}, nil
}

type stubRecorder struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (s *stubRecorder) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *stubRecorder) all() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func newTestInterceptor(recorder *stubRecorder) (*Interceptor, *stubIdentities) {
	identities := &stubIdentities{identities: map[string]*shared.Identity{
		"finance-token": {ID: 7, Name: "Ama", Email: "ama@board.test", Role: rbac.RoleFinance},
		"admin-token":   {ID: 1, Name: "Root", Email: "root@board.test", Role: rbac.RoleSuperAdmin},
	}}
	return NewInterceptor(nil, identities, recorder, "minex_token", "/auth/login"), identities
}

func TestWrapRecordsSuccessUnchanged(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	var seenBody string
	handler := interceptor.Wrap(Options{EntityType: "JobCard"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/job-cards", strings.NewReader(`{"reference":"JC-001"}`))
	req.Header.Set("Authorization", "Bearer finance-token")
	req.Header.Set("User-Agent", "minex-test")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, `{"reference":"JC-001"}`, seenBody, "handler must see the full body after snapshot")

	entries := recorder.all()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, ActionCreate, entry.Action)
	assert.Equal(t, "JobCard", entry.EntityType)
	assert.Equal(t, "job-cards", entry.EntityID)
	assert.Equal(t, "JC-001", entry.Details["reference"])
	assert.Equal(t, http.StatusCreated, entry.Metadata["status"])
	assert.Equal(t, http.MethodPost, entry.Metadata["method"])
	assert.Equal(t, "minex-test", entry.UserAgent)
}

func TestWrapRecordsPanicThenRethrows(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{EntityType: "Invoice"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("ledger unavailable")
	}))

	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{"amount":100}`))
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			recovered := recover()
			require.Equal(t, "ledger unavailable", recovered, "original panic must propagate unchanged")
		}()
		handler.ServeHTTP(rec, req)
	}()

	entries := recorder.all()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, true, entry.Metadata["error"])
	assert.Equal(t, http.StatusInternalServerError, entry.Metadata["status"])
	assert.Equal(t, "ledger unavailable", entry.Details["error"])
	original, ok := entry.Details["originalData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(100), original["amount"])
}

func TestWrapGatedWithoutCredential(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{
		EntityType:      "JobCard",
		RequiredModule:  rbac.ModuleJobCards,
		RequiredActions: []rbac.Action{rbac.ActionRead},
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/job-cards", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	for _, e := range recorder.all() {
		assert.Equal(t, UnknownUserID, e.UserID, "no entry may carry a resolved user id")
	}
}

func TestWrapDeniesMissingActionNamingModule(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{
		EntityType:      "Setting",
		RequiredModule:  rbac.ModuleSettings,
		RequiredActions: []rbac.Action{rbac.ActionUpdate},
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/settings/export-levy", strings.NewReader(`{"rate":3}`))
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "settings")
}

func TestWrapSuperAdminPassesAnyGate(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{
		EntityType:      "Setting",
		RequiredModule:  rbac.ModuleSettings,
		RequiredActions: []rbac.Action{rbac.ActionUpdate, rbac.ActionDelete},
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/settings/export-levy", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	entries := recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, ActionDelete, entries[0].Action)
}

func TestWrapAuditOnlyProceedsWithUnknownUser(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{EntityType: "Notification"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	entries := recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, UnknownUserID, entries[0].UserID)
	assert.Equal(t, ActionView, entries[0].Action)
}

func TestWrapDeferredIDResolver(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	// The id becomes available asynchronously; the resolver blocks until it
	// is delivered, which the interceptor must tolerate transparently.
	deferred := IDResolverFunc(func(r *http.Request) (string, error) {
		resolved := make(chan string, 1)
		go func() {
			time.Sleep(5 * time.Millisecond)
			resolved <- "abc123"
		}()
		return <-resolved, nil
	})

	handler := interceptor.Wrap(Options{EntityType: "JobCard", IDResolver: deferred}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/job-cards", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	entries := recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc123", entries[0].EntityID)
}

func TestWrapEntityIDFromRouteParam(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	router := chi.NewRouter()
	router.With(interceptor.Intercept(Options{EntityType: "JobCard"})).
		Put("/job-cards/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	req := httptest.NewRequest(http.MethodPut, "/job-cards/jc-889", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	entries := recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "jc-889", entries[0].EntityID)
	assert.Equal(t, ActionUpdate, entries[0].Action)
}

func TestWrapEntityIDFallsBackToUnknown(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{EntityType: "Dashboard"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	entries := recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, UnknownEntityID, entries[0].EntityID)
}

func TestWrapRecorderFailureInvisibleToCaller(t *testing.T) {
	recorder := &stubRecorder{err: context.DeadlineExceeded}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{EntityType: "JobCard"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/job-cards", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code, "audit failure must not change the response")
}

func TestWrapLoginBypassesIdentityResolution(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, identities := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{EntityType: "Session"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.test"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, identities.calls, "login must skip identity resolution")
	assert.Empty(t, recorder.all())
}

func TestWrapIdentityAvailableToHandler(t *testing.T) {
	recorder := &stubRecorder{}
	interceptor, _ := newTestInterceptor(recorder)

	handler := interceptor.Wrap(Options{
		EntityType:      "Valuation",
		RequiredModule:  rbac.ModuleValuations,
		RequiredActions: []rbac.Action{rbac.ActionRead},
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := shared.IdentityFromContext(r.Context())
		require.NotNil(t, identity)
		assert.Equal(t, int64(7), identity.ID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/valuations/v-1", nil)
	req.Header.Set("Authorization", "Bearer finance-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
