package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for audit entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = `id, user_id, action, entity_type, entity_id, details, ip_address, user_agent, metadata, occurred_at`

// Create appends one audit entry.
func (r *Repository) Create(ctx context.Context, e Entry) error {
	details, err := marshalJSON(e.Details)
	if err != nil {
		return fmt.Errorf("audit: marshal details: %w", err)
	}
	metadata, err := marshalJSON(e.Metadata)
	if err != nil {
		return fmt.Errorf("audit: marshal metadata: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_trail (user_id, action, entity_type, entity_id, details, ip_address, user_agent, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE(NULLIF($9, '0001-01-01 00:00:00+00'::timestamptz), NOW()))`,
		e.UserID, string(e.Action), e.EntityType, e.EntityID, details, e.IPAddress, e.UserAgent, metadata, e.At)
	return err
}

// ListForEntity returns entries for one entity, newest first.
func (r *Repository) ListForEntity(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM audit_trail WHERE entity_type = $1 AND entity_id = $2 ORDER BY occurred_at DESC, id DESC`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// ListForUser returns entries attributed to one user, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM audit_trail WHERE user_id = $1 ORDER BY occurred_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// ListPage returns one page of entries, newest first.
func (r *Repository) ListPage(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM audit_trail ORDER BY occurred_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// Count returns the total number of entries.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_trail`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteOlderThan removes entries older than the given number of days and
// returns how many rows were deleted. Used by the retention purge job only;
// the request path never deletes.
func (r *Repository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit_trail WHERE occurred_at < NOW() - make_interval(days => $1)`, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var details, metadata []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &details, &e.IPAddress, &e.UserAgent, &metadata, &e.At); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &e.Metadata)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func marshalJSON(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
