// internal/service/audit_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/middleware"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/audit"
)

// AuditService persists audit events: logins, registrations, permission
// denials. Event writes are best-effort and never fail the request that
// produced them.
type AuditService struct {
	store *store.Store
}

// NewAuditService creates a new audit service
func NewAuditService(st *store.Store) *AuditService {
	return &AuditService{store: st}
}

// Log records an audit event with client metadata taken from the context.
func (s *AuditService) Log(ctx context.Context, userID uuid.NullUUID, eventType, description, severity string) error {
	if !audit.IsValidSeverity(severity) {
		return fmt.Errorf("unknown audit severity: %s", severity)
	}

	clientInfo := middleware.GetClientInfoFromContext(ctx)

	event := &store.AuditEvent{
		ID:          uuid.New(),
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		Severity:    severity,
		IPAddress:   clientInfo.IPAddress,
		UserAgent:   clientInfo.UserAgent,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// LogUserEvent records an event tied to a known user.
func (s *AuditService) LogUserEvent(ctx context.Context, userID uuid.UUID, eventType, description, severity string) {
	id := uuid.NullUUID{UUID: userID, Valid: true}
	if err := s.Log(ctx, id, eventType, description, severity); err != nil {
		log.Printf("Failed to record audit event %s: %v", eventType, err)
	}
}

// LogAnonymousEvent records an event with no associated user, such as a
// failed login for an unknown email.
func (s *AuditService) LogAnonymousEvent(ctx context.Context, eventType, description, severity string) {
	if err := s.Log(ctx, uuid.NullUUID{}, eventType, description, severity); err != nil {
		log.Printf("Failed to record audit event %s: %v", eventType, err)
	}
}

// LogPermissionDenied records a denied mutation attempt by actor.
func (s *AuditService) LogPermissionDenied(ctx context.Context, actor uuid.UUID, description string) {
	s.LogUserEvent(ctx, actor, audit.EventTypePermissionDenied, description, audit.SeverityMedium)
}

// RecordIfDenied logs a permission-denied event when err is a
// PermissionError. Services call this after their transaction has rolled
// back so the event write does not contend with it.
func (s *AuditService) RecordIfDenied(ctx context.Context, actor uuid.UUID, err error) {
	if IsPermission(err) {
		s.LogPermissionDenied(ctx, actor, err.Error())
	}
}
