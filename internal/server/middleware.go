package server

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware caps the request rate across the /api surface with a
// single process-wide token bucket.
func rateLimitMiddleware(rps, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
