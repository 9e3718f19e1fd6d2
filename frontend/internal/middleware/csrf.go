package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	"github.com/henhouse-dev/henhouse/shared/csrf"
	"github.com/henhouse-dev/henhouse/shared/logger"
)

type csrfContextKey string

const csrfTokenContextKey csrfContextKey = "csrf_token"

// CSRFIssuer obtains a fresh CSRF cookie from the backend.
type CSRFIssuer interface {
	GetCSRFToken(ctx context.Context) (*http.Cookie, error)
}

// CSRFConfig holds CSRF middleware configuration
type CSRFConfig struct {
	SecureCookies bool // Use Secure flag on cookies (requires HTTPS)
	Issuer        CSRFIssuer
}

// EnsureCSRFToken makes sure the browser holds the backend's csrftoken
// cookie, fetching one when it is missing, and exposes the token to
// templates through the request context.
func EnsureCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(apiclient.CSRFCookieName); err == nil && cookie.Value != "" {
				token = cookie.Value
			} else if config.Issuer != nil {
				issued, err := config.Issuer.GetCSRFToken(r.Context())
				if err != nil {
					// forms rendered without a token fail validation on submit
					logger.Log.Warn("failed to obtain CSRF token from backend", "error", err)
				} else {
					ForwardCookie(w, issued, config.SecureCookies)
					token = issued.Value
				}
			}

			ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateCSRFToken middleware validates CSRF token from form submission
func ValidateCSRFToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut &&
				r.Method != http.MethodPatch && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(apiclient.CSRFCookieName)
			if err != nil {
				logger.Log.Warn("CSRF token cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					logger.Log.Error("failed to parse multipart form", "error", err)
					http.Error(w, "Invalid form data", http.StatusBadRequest)
					return
				}
			} else if err := r.ParseForm(); err != nil {
				logger.Log.Error("failed to parse form", "error", err)
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}

			if !csrf.ValidateToken(cookie.Value, csrf.Submitted(r)) {
				logger.Log.Warn("CSRF token validation failed", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFTokenFromContext retrieves CSRF token from request context
func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenContextKey).(string)
	return token
}
