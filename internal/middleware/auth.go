// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/taskforge/taskforge/pkg/auth"
)

// Authenticator provides authentication middleware for protected routes.
type Authenticator struct {
	tokenManager *auth.TokenManager
}

// NewAuthenticator creates a new auth middleware
func NewAuthenticator(tokenManager *auth.TokenManager) *Authenticator {
	return &Authenticator{tokenManager: tokenManager}
}

// RequireAuth validates the bearer token and stores the authenticated
// identity on the request context. Handlers read the actor from there and
// pass it explicitly into the service layer.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			unauthorized(w, "missing or malformed authorization header")
			return
		}

		claims, err := a.tokenManager.ValidateAccessToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, ContextKeyUsername, claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Printf("Failed to write unauthorized response: %v", err)
	}
}
