// Package jobs contains the background task queue built on Asynq.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditPurge trims audit trail entries past the retention window.
	TaskAuditPurge = "audit:purge"
)

// AuditPurgePayload carries the retention window for a purge run.
type AuditPurgePayload struct {
	RetentionDays int `json:"retentionDays"`
}

// NewAuditPurgeTask constructs an Asynq task.
func NewAuditPurgeTask(payload AuditPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPurge, data), nil
}

// AuditPurger deletes audit entries older than the given number of days.
type AuditPurger interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// NewAuditPurgeHandler returns the handler for TaskAuditPurge tasks.
func NewAuditPurgeHandler(purger AuditPurger, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.RetentionDays <= 0 {
			logger.Warn("audit purge skipped, invalid retention", slog.Int("days", payload.RetentionDays))
			return asynq.SkipRetry
		}
		deleted, err := purger.DeleteOlderThan(ctx, payload.RetentionDays)
		if err != nil {
			return err
		}
		logger.Info("audit purge completed",
			slog.Int("retention_days", payload.RetentionDays),
			slog.Int64("deleted", deleted))
		return nil
	}
}
