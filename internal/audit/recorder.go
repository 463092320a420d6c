package audit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
)

// Writer appends audit entries to the store.
type Writer interface {
	Create(ctx context.Context, e Entry) error
}

// Recorder writes audit entries with the actor-substitution policy applied:
// an entry whose user id does not exist in the user store is re-attributed
// to the reserved system user; if even the system user is missing, the write
// is skipped with a warning.
type Recorder struct {
	repo         Writer
	logger       *slog.Logger
	systemUserID int64
	observe      func(outcome string)
}

// NewRecorder constructs a Recorder.
func NewRecorder(repo Writer, logger *slog.Logger, systemUserID int64) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger, systemUserID: systemUserID}
}

// SetObserver installs a per-write outcome callback, used for metrics. The
// outcome is one of "recorded", "substituted", "skipped" or "error".
func (r *Recorder) SetObserver(fn func(outcome string)) {
	r.observe = fn
}

func (r *Recorder) observeOutcome(outcome string) {
	if r.observe != nil {
		r.observe(outcome)
	}
}

// SystemUserID returns the reserved fallback actor id.
func (r *Recorder) SystemUserID() int64 {
	return r.systemUserID
}

// Record persists one entry.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.repo == nil {
		return errors.New("audit: recorder not initialised")
	}
	if e.Action == "" || e.EntityType == "" {
		return errors.New("audit: entry requires action and entity type")
	}
	if e.EntityID == "" {
		e.EntityID = UnknownEntityID
	}

	err := r.repo.Create(ctx, e)
	if !isForeignKeyViolation(err) {
		if err != nil {
			r.observeOutcome("error")
		} else {
			r.observeOutcome("recorded")
		}
		return err
	}
	if e.UserID == r.systemUserID {
		r.logger.Warn("audit entry skipped, system user missing",
			slog.String("entity_type", e.EntityType),
			slog.String("entity_id", e.EntityID))
		r.observeOutcome("skipped")
		return nil
	}

	original := e.UserID
	e.UserID = r.systemUserID
	err = r.repo.Create(ctx, e)
	if isForeignKeyViolation(err) {
		r.logger.Warn("audit entry skipped, system user missing",
			slog.Int64("original_user_id", original),
			slog.String("entity_type", e.EntityType),
			slog.String("entity_id", e.EntityID))
		r.observeOutcome("skipped")
		return nil
	}
	if err != nil {
		r.observeOutcome("error")
		return err
	}
	r.observeOutcome("substituted")
	return nil
}

// isForeignKeyViolation reports whether err is a postgres FK violation
// (class 23503), which here means the actor id has no user row.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
