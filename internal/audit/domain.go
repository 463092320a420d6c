// Package audit implements the audit-trail interception layer: every
// state-changing request is wrapped, attributed to an identity and recorded
// as an append-only entry without altering the wrapped handler's behavior.
package audit

import (
	"net/http"
	"time"
)

// Action classifies what an intercepted request did.
type Action string

const (
	ActionView   Action = "VIEW"
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionOther  Action = "OTHER"
)

const (
	// UnknownEntityID is recorded when no entity id could be resolved.
	UnknownEntityID = "unknown"
	// UnknownUserID attributes entries whose caller could not be resolved.
	// The recorder substitutes the system user before the row is written.
	UnknownUserID int64 = 0
)

// Entry is one append-only audit record. Created exactly once per
// intercepted request; never updated or deleted by this subsystem.
type Entry struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"userId"`
	Action     Action         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress"`
	UserAgent  string         `json:"userAgent"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	At         time.Time      `json:"timestamp"`
}

// ActionForMethod maps an HTTP verb to an audit action.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet:
		return ActionView
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionOther
	}
}
