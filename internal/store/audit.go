// internal/store/audit.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateAuditEvent(ctx context.Context, e *AuditEvent) error {
	_, err := s.exec(ctx,
		`INSERT INTO audit_events (id, user_id, event_type, description, severity,
		                           ip_address, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.EventType, e.Description, e.Severity,
		e.IPAddress, e.UserAgent, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListAuditEventsByUser(ctx context.Context, userID uuid.UUID) ([]AuditEvent, error) {
	events := []AuditEvent{}
	err := s.selectAll(ctx, &events,
		`SELECT * FROM audit_events WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
