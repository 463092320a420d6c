package jobcards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minexboard/minex/internal/platform/httpx"
	"github.com/minexboard/minex/internal/shared"
)

// Repository defines job card persistence.
type Repository interface {
	Create(ctx context.Context, card *JobCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*JobCard, error)
	List(ctx context.Context, filter ListFilter) ([]JobCard, int, error)
	Update(ctx context.Context, card *JobCard) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const cardColumns = `id, reference, exporter_name, mineral_type, weight_kg, large_scale, status, assayer_id, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, card *JobCard) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO job_cards (id, reference, exporter_name, mineral_type, weight_kg, large_scale, status, assayer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		card.ID, card.Reference, card.ExporterName, card.MineralType, card.WeightKg, card.LargeScale, card.Status, card.AssayerID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (*JobCard, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM job_cards WHERE id = $1`, id)
	var card JobCard
	err := row.Scan(&card.ID, &card.Reference, &card.ExporterName, &card.MineralType, &card.WeightKg, &card.LargeScale, &card.Status, &card.AssayerID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]JobCard, int, error) {
	where := ` WHERE ($1::boolean IS NULL OR large_scale = $1) AND ($2 = '' OR status = $2)`
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_cards`+where, filter.LargeScale, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	pagination := shared.NewPagination(filter.Page, filter.PageSize, total)
	rows, err := r.pool.Query(ctx, `SELECT `+cardColumns+` FROM job_cards`+where+` ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`,
		filter.LargeScale, string(filter.Status), pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var cards []JobCard
	for rows.Next() {
		var card JobCard
		if err := rows.Scan(&card.ID, &card.Reference, &card.ExporterName, &card.MineralType, &card.WeightKg, &card.LargeScale, &card.Status, &card.AssayerID, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *PGRepository) Update(ctx context.Context, card *JobCard) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE job_cards
		SET exporter_name = $2, mineral_type = $3, weight_kg = $4, status = $5, updated_at = NOW()
		WHERE id = $1`,
		card.ID, card.ExporterName, card.MineralType, card.WeightKg, card.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
