package audit

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/minexboard/minex/internal/shared"
)

// QueryRepository provides the read-side store operations.
type QueryRepository interface {
	ListForEntity(ctx context.Context, entityType, entityID string) ([]Entry, error)
	ListForUser(ctx context.Context, userID int64) ([]Entry, error)
	ListPage(ctx context.Context, limit, offset int) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}

// PagedResult bundles one page of entries with pagination metadata.
type PagedResult struct {
	Entries    []Entry           `json:"entries"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service is the audit-trail read path.
type Service struct {
	repo QueryRepository
}

// NewService constructs a Service.
func NewService(repo QueryRepository) *Service {
	return &Service{repo: repo}
}

// ListForEntity returns entries for one entity, newest first.
func (s *Service) ListForEntity(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	return s.repo.ListForEntity(ctx, entityType, entityID)
}

// ListForUser returns entries attributed to one user, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Entry, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	return s.repo.ListForUser(ctx, userID)
}

// ListPaged returns one page of entries. page is 1-indexed. pageSize is
// taken as given; bounding it is the caller's responsibility.
func (s *Service) ListPaged(ctx context.Context, page, pageSize int) (PagedResult, error) {
	if s.repo == nil {
		return PagedResult{}, fmt.Errorf("audit: repository not configured")
	}
	// The offset depends only on page and pageSize, so the count and the
	// page itself can be fetched concurrently.
	window := shared.NewPagination(page, pageSize, 0)
	var (
		total   int
		entries []Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.repo.ListPage(gctx, window.PageSize, window.Offset())
		return err
	})
	if err := g.Wait(); err != nil {
		return PagedResult{}, err
	}
	return PagedResult{Entries: entries, Pagination: shared.NewPagination(page, pageSize, total)}, nil
}
