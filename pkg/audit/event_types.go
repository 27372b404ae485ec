// pkg/audit/event_types.go
package audit

// EventType constants for audit event classification
const (
	EventTypeLoginSuccess     = "login_success"
	EventTypeLoginFailed      = "login_failed"
	EventTypeUserRegistered   = "user_registered"
	EventTypePermissionDenied = "permission_denied"
)

// Severity constants for audit event severity
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ValidEventTypes returns all known event types
func ValidEventTypes() []string {
	return []string{
		EventTypeLoginSuccess,
		EventTypeLoginFailed,
		EventTypeUserRegistered,
		EventTypePermissionDenied,
	}
}

// IsValidSeverity checks whether a severity value is known
func IsValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
