package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/henhouse-dev/henhouse/shared/errors"
	"github.com/henhouse-dev/henhouse/shared/logger"
	"github.com/henhouse-dev/henhouse/shared/middleware/ratelimiter"
	"github.com/henhouse-dev/henhouse/shared/utils"
)

// RateLimit rejects requests whose identity has exhausted its bucket.
// Requests whose identity cannot be determined are rejected with 400.
func RateLimit(rl *ratelimiter.KeyedRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				logger.Log.Warn("rate limit: failed to identify request", "path", r.URL.Path, "error", err)
				utils.WriteErrorAndStatusCode(w, errors.BadRequest("Bad Request"))
				return
			}

			if !rl.Allow(identity) {
				logger.Log.Info("rate limit exceeded", "identity", identity, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				utils.WriteErrorAndStatusCode(w, errors.TooManyRequests("Too Many Requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr. Forwarding headers are
// ignored here; chi's RealIP middleware rewrites RemoteAddr when the
// deployment sits behind a trusted proxy.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

// GetFieldFromForm returns an identity function keyed on a form field,
// lowercased. Empty values fall back to the client IP.
func GetFieldFromForm(field string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		if err := r.ParseForm(); err != nil {
			return "", fmt.Errorf("parse form: %w", err)
		}
		value := strings.ToLower(strings.TrimSpace(r.PostFormValue(field)))
		if value == "" {
			return GetIP(r)
		}
		return field + ":" + value, nil
	}
}
