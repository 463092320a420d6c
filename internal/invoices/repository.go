package invoices

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

// Repository defines invoice persistence.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, page, pageSize int) ([]Invoice, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const invoiceColumns = `id, number, job_card_id, amount_minor, currency, status, issued_by, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, inv *Invoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (id, number, job_card_id, amount_minor, currency, status, issued_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		inv.ID, inv.Number, inv.JobCardID, inv.AmountMinor, inv.Currency, inv.Status, inv.IssuedBy)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.JobCardID, &inv.AmountMinor, &inv.Currency, &inv.Status, &inv.IssuedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) List(ctx context.Context, page, pageSize int) ([]Invoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, err
	}
	pagination := shared.NewPagination(page, pageSize, total)
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.JobCardID, &inv.AmountMinor, &inv.Currency, &inv.Status, &inv.IssuedBy, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
