package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minexboard/minex/internal/rbac"
	_ "github.com/minexboard/minex/testing"
)

func TestResolveTokenPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "minex_token", Value: "cookie-token"})

	if got := ResolveToken(req, "minex_token"); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}
}

func TestResolveTokenCookieFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.AddCookie(&http.Cookie{Name: "minex_token", Value: "cookie-token"})

	if got := ResolveToken(req, "minex_token"); got != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", got)
	}
}

func TestResolveTokenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	if got := ResolveToken(req, "minex_token"); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")
	token, err := v.Issue(42, rbac.RoleFinance, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", claims.Subject)
	}
	if claims.Role != string(rbac.RoleFinance) {
		t.Fatalf("expected role claim FINANCE, got %q", claims.Role)
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	v := NewVerifier("test-secret")
	_, err := v.Verify("")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier("test-secret")
	token, err := v.Issue(42, rbac.RoleFinance, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = v.Verify(token)
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailTokenExpired {
		t.Fatalf("expected expired failure, got %v", err)
	}
	if failure.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", failure.Status)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	token, err := NewVerifier("other-secret").Issue(42, rbac.RoleFinance, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = NewVerifier("test-secret").Verify(token)
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailTokenInvalid {
		t.Fatalf("expected invalid failure, got %v", err)
	}
	if failure.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", failure.Status)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	v := NewVerifier("test-secret")
	_, err := v.Verify("not.a.jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
