package audit

import (
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// Service records accepted mutations. A nil *Service discards everything,
// which is how the audit trail is switched off.
type Service struct {
	auditor *Auditor
	now     func() time.Time
}

// NewService returns nil when dir is empty.
func NewService(dir string) *Service {
	if dir == "" {
		return nil
	}
	return &Service{auditor: NewAuditor(dir), now: time.Now}
}

// Log writes event, filling in CreatedAt. Failures are logged, not returned:
// the mutation has already been applied.
func (s *Service) Log(event entities.AuditEvent) {
	if s == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}
	if event.Status == "" {
		event.Status = entities.AuditStatusSuccess
	}
	if _, err := s.auditor.SaveJSON(event); err != nil {
		logging.Error().Err(err).
			Str("entity_type", event.EntityType).
			Str("entity_id", event.EntityID).
			Msg("failed to write audit event")
	}
}

// LogMutation is a shorthand for the common create/update/delete case.
func (s *Service) LogMutation(eventType entities.AuditEventType, entityType, entityID, requestID string, payload any, recommendations int) {
	s.Log(entities.AuditEvent{
		EventType:       eventType,
		EntityType:      entityType,
		EntityID:        entityID,
		RequestID:       requestID,
		Payload:         payload,
		Recommendations: recommendations,
	})
}

// Dir reports where events are written, or "" when disabled.
func (s *Service) Dir() string {
	if s == nil {
		return ""
	}
	return s.auditor.AuditDir
}
