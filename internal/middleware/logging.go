// internal/middleware/logging.go
package middleware

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with its outcome, duration, actor and
// client address.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		clientInfo := GetClientInfoFromContext(r.Context())
		username, _ := GetUsernameFromContext(r.Context())

		logLevel := "INFO"
		if rec.status >= http.StatusInternalServerError {
			logLevel = "ERROR"
		}
		log.Printf("[%s] %s %s -> %d completed in %v (user: %s, ip: %s)",
			logLevel, r.Method, r.URL.Path, rec.status, duration, username, clientInfo.IPAddress)
	})
}
