package domain

import "time"

// AuditAction is the change recorded by an audit entry.
type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditCreated, AuditUpdated, AuditDeleted:
		return true
	}
	return false
}

// AuditEntry is one row of the AI audit log. Entries are written by deferred
// work after the originating save has committed.
type AuditEntry struct {
	ID            string      `json:"id"`
	EntityType    EntityType  `json:"entity_type"`
	EntityID      string      `json:"entity_id"`
	Action        AuditAction `json:"action"`
	CorrelationID *string     `json:"correlation_id,omitempty"`
	Detail        string      `json:"detail,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// AuditFilter holds query parameters for paginated audit listing.
type AuditFilter struct {
	EntityType *EntityType
	EntityID   *string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// EntityEvent describes a committed change to an entity. It is what the
// notifier delivers to external subscribers.
type EntityEvent struct {
	EntityType    EntityType  `json:"entity_type"`
	EntityID      string      `json:"entity_id"`
	Alias         string      `json:"alias,omitempty"`
	Action        AuditAction `json:"action"`
	Version       int         `json:"version"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	OccurredAt    time.Time   `json:"occurred_at"`
}
