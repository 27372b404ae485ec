// internal/middleware/client_info.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey for storing request metadata
type ContextKey string

const (
	ContextKeyIPAddress ContextKey = "ip_address"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyUserEmail ContextKey = "user_email"
	ContextKeyUsername  ContextKey = "username"
)

// ClientInfo carries per-request client metadata for logging and auditing.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// ClientInfoExtractor extracts the client IP address and user agent and adds
// them to the request context before any other middleware runs.
func ClientInfoExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if ip := extractIPAddress(r); ip != "" {
			ctx = context.WithValue(ctx, ContextKeyIPAddress, ip)
		}
		if ua := r.UserAgent(); ua != "" {
			ctx = context.WithValue(ctx, ContextKeyUserAgent, ua)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractIPAddress resolves the client address, preferring the first
// X-Forwarded-For hop when the service sits behind a proxy.
func extractIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // Return as-is if parsing fails
	}
	return host
}

// GetClientInfoFromContext returns the client metadata stored on the context.
func GetClientInfoFromContext(ctx context.Context) ClientInfo {
	info := ClientInfo{}
	if ip, ok := ctx.Value(ContextKeyIPAddress).(string); ok {
		info.IPAddress = ip
	}
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		info.UserAgent = ua
	}
	return info
}

// GetActorFromContext returns the authenticated user's ID, if any.
func GetActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUsernameFromContext returns the authenticated username, if any.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyUsername).(string)
	return username, ok
}
