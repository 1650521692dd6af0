package entities

import "time"

type AuditEventType string

const (
	AuditEventCreate AuditEventType = "create"
	AuditEventUpdate AuditEventType = "update"
	AuditEventDelete AuditEventType = "delete"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent describes one accepted mutation request.
type AuditEvent struct {
	EventType  AuditEventType `json:"event_type"`
	EntityType string         `json:"entity_type"` // "user", "book", "review", "recommendation"
	EntityID   string         `json:"entity_id"`
	Status     AuditStatus    `json:"status"`
	RequestID  string         `json:"request_id,omitempty"`
	Payload    any            `json:"payload,omitempty"`
	// Recommendations is the size of the recommendation collection after the cascade.
	Recommendations int       `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}
