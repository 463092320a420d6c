package audithttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minexboard/minex/internal/audit"
	"github.com/minexboard/minex/internal/shared"
	_ "github.com/minexboard/minex/testing"
)

type stubService struct {
	lastPage     int
	lastPageSize int
}

func (s *stubService) ListForEntity(ctx context.Context, entityType, entityID string) ([]audit.Entry, error) {
	return nil, nil
}

func (s *stubService) ListForUser(ctx context.Context, userID int64) ([]audit.Entry, error) {
	return nil, nil
}

func (s *stubService) ListPaged(ctx context.Context, page, pageSize int) (audit.PagedResult, error) {
	s.lastPage = page
	s.lastPageSize = pageSize
	return audit.PagedResult{
		Entries:    []audit.Entry{},
		Pagination: shared.NewPagination(page, pageSize, 0),
	}, nil
}

func TestListClampsPageSize(t *testing.T) {
	svc := &stubService{}
	handler := NewHandler(nil, svc)

	req := httptest.NewRequest(http.MethodGet, "/audit?page=3&page_size=5000", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastPageSize != maxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", maxPageSize, svc.lastPageSize)
	}
	if svc.lastPage != 3 {
		t.Fatalf("expected page 3, got %d", svc.lastPage)
	}
}

func TestListDefaultsPageSize(t *testing.T) {
	svc := &stubService{}
	handler := NewHandler(nil, svc)

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if svc.lastPageSize != defaultPageSize {
		t.Fatalf("expected default page size %d, got %d", defaultPageSize, svc.lastPageSize)
	}

	var body struct {
		Entries []audit.Entry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Entries == nil {
		t.Fatalf("entries must serialize as an empty array")
	}
}

func TestListForUserRejectsNonNumericID(t *testing.T) {
	handler := NewHandler(nil, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/audit/user/abc", nil)
	rec := httptest.NewRecorder()
	handler.ListForUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
