package invoices

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/minexboard/minex/internal/platform/httpx"
)

// Service wraps invoice business rules.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create issues a new invoice attributed to the issuing user.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, issuedBy int64) (*Invoice, error) {
	req.Number = strings.TrimSpace(req.Number)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	inv := &Invoice{
		ID:          uuid.New(),
		Number:      req.Number,
		JobCardID:   req.JobCardID,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Status:      StatusPending,
		IssuedBy:    issuedBy,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Get loads one invoice.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of invoices plus the total count.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]Invoice, int, error) {
	return s.repo.List(ctx, page, pageSize)
}

// MarkPaid settles a pending invoice.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != StatusPending {
		return fmt.Errorf("%w: invoice %s is %s", httpx.ErrValidation, inv.Number, inv.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusPaid)
}
