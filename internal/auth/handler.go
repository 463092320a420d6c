package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minexboard/minex/internal/platform/httpx"
	"github.com/minexboard/minex/internal/rbac"
	"github.com/minexboard/minex/internal/shared"
)

// Handler serves the authentication endpoints.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	limiter      *AttemptLimiter
	cookieName   string
	secureCookie bool
	tokenTTL     time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, limiter *AttemptLimiter, cookieName string, secureCookie bool, tokenTTL time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:       logger,
		service:      service,
		limiter:      limiter,
		cookieName:   cookieName,
		secureCookie: secureCookie,
		tokenTTL:     tokenTTL,
	}
}

// MountRoutes registers the auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Get("/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string           `json:"token"`
	User         *shared.Identity `json:"user"`
	DefaultRoute string           `json:"defaultRoute"`
}

// Login authenticates email/password credentials and issues a token. The
// token is also set as a cookie for browser clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "email and password are required")
		return
	}

	ip := clientIP(r)
	if h.limiter.TooMany(r.Context(), req.Email, ip) {
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Attempts", shared.ErrTooManyAttempts.Error())
		return
	}

	identity, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.limiter.NoteFailure(r.Context(), req.Email, ip)
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.limiter.Reset(r.Context(), req.Email, ip)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(h.tokenTTL),
	})
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:        token,
		User:         identity,
		DefaultRoute: rbac.DefaultRouteForRole(identity.Role),
	})
}

// Me returns the current identity and its default route.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := ResolveToken(r, h.cookieName)
	identity, _, err := h.service.LoadAndValidate(r.Context(), token)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":         identity,
		"defaultRoute": rbac.DefaultRouteForRole(identity.Role),
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
