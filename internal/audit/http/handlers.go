package audithttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minexboard/minex/internal/audit"
	"github.com/minexboard/minex/internal/platform/httpx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// QueryService defines the read contract for audit entries.
type QueryService interface {
	ListForEntity(ctx context.Context, entityType, entityID string) ([]audit.Entry, error)
	ListForUser(ctx context.Context, userID int64) ([]audit.Entry, error)
	ListPaged(ctx context.Context, page, pageSize int) (audit.PagedResult, error)
}

// Handler serves the audit-trail read endpoints.
type Handler struct {
	logger  *slog.Logger
	service QueryService
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service QueryService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// List returns a page of audit entries. The page size is clamped here; the
// query service takes it as given.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result, err := h.service.ListPaged(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("list audit entries failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if result.Entries == nil {
		result.Entries = []audit.Entry{}
	}
	httpx.JSON(w, http.StatusOK, result)
}

// ListForEntity returns the trail for one entity, newest first.
func (h *Handler) ListForEntity(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	entityID := chi.URLParam(r, "entityID")
	entries, err := h.service.ListForEntity(r.Context(), entityType, entityID)
	if err != nil {
		h.logger.Error("list entity audit entries failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// ListForUser returns the trail attributed to one user, newest first.
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "user id must be numeric")
		return
	}
	entries, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list user audit entries failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
