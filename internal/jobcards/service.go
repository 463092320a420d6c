package jobcards

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/minexboard/minex/internal/platform/httpx"
)

// Service wraps job card business rules.
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

// Create registers a new job card for the given assayer.
func (s *Service) Create(ctx context.Context, req CreateJobCardRequest, assayerID int64) (*JobCard, error) {
	req.Reference = strings.TrimSpace(req.Reference)
	req.ExporterName = strings.TrimSpace(req.ExporterName)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	card := &JobCard{
		ID:           uuid.New(),
		Reference:    req.Reference,
		ExporterName: req.ExporterName,
		MineralType:  req.MineralType,
		WeightKg:     req.WeightKg,
		LargeScale:   req.LargeScale,
		Status:       StatusOpen,
		AssayerID:    assayerID,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Get loads one job card.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*JobCard, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns job cards matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]JobCard, int, error) {
	return s.repo.List(ctx, filter)
}

// Update amends a job card. Zero-valued fields keep their stored value.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateJobCardRequest) (*JobCard, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ExporterName != "" {
		card.ExporterName = strings.TrimSpace(req.ExporterName)
	}
	if req.MineralType != "" {
		card.MineralType = req.MineralType
	}
	if req.WeightKg > 0 {
		card.WeightKg = req.WeightKg
	}
	if req.Status != "" {
		card.Status = req.Status
	}
	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes a job card.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
