package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		ExposedHeaders: corsExposedHeaders,
		MaxAge:         corsMaxAgeSeconds,
	})
}

// keyByCaller buckets requests by X-User-ID, falling back to the client IP for anonymous callers
func keyByCaller(r *http.Request) (string, error) {
	if id := strings.TrimSpace(r.Header.Get(HeaderUserID)); id != "" {
		return "user:" + id, nil
	}
	return httprate.KeyByIP(r)
}

// callerRateLimit limits routes that fan out to upstream platforms. A non-positive limit disables it.
func callerRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(keyByCaller),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
		}),
	)
}
