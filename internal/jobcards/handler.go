package jobcards

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/minexboard/minex/internal/platform/httpx"
	"github.com/minexboard/minex/internal/shared"
)

// Handler serves job card endpoints. The largeScale flag pins listings to
// one scale class so the same handler backs both route groups.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	largeScale bool
}

// NewHandler constructs a Handler for small-scale job cards.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// NewLargeScaleHandler constructs a Handler scoped to large-scale job cards.
func NewLargeScaleHandler(logger *slog.Logger, service *Service) *Handler {
	h := NewHandler(logger, service)
	h.largeScale = true
	return h
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateJobCardRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	req.LargeScale = h.largeScale

	var assayerID int64
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		assayerID = identity.ID
	}
	card, err := h.service.Create(r.Context(), req, assayerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, card)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		LargeScale: &h.largeScale,
		Status:     Status(r.URL.Query().Get("status")),
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 20),
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	cards, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list job cards failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if cards == nil {
		cards = []JobCard{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"jobCards":   cards,
		"pagination": shared.NewPagination(filter.Page, filter.PageSize, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "job card id must be a UUID")
		return
	}
	card, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "job card not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "job card id must be a UUID")
		return
	}
	var req UpdateJobCardRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	card, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "job card not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "job card id must be a UUID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "job card not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
