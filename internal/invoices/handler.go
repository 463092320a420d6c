package invoices

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

// Handler serves invoice endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	var issuedBy int64
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		issuedBy = identity.ID
	}
	inv, err := h.service.Create(r.Context(), req, issuedBy)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, InvoiceResponse{Invoice: *inv, FormattedTotal: inv.FormattedTotal()})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	if pageSize > 100 {
		pageSize = 100
	}
	invoices, total, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("list invoices failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, InvoiceResponse{Invoice: inv, FormattedTotal: inv.FormattedTotal()})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"invoices":   responses,
		"pagination": shared.NewPagination(page, pageSize, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "invoice id must be a UUID")
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "invoice not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, InvoiceResponse{Invoice: *inv, FormattedTotal: inv.FormattedTotal()})
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "invoice id must be a UUID")
		return
	}
	if err := h.service.MarkPaid(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "invoice not found")
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
