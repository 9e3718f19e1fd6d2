package apiclient

import (
	"net/http"
	"strings"
)

const (
	CSRFHeaderName    = "X-CSRFToken"
	CSRFCookieName    = "csrftoken"
	SessionCookieName = "sessionid"
)

// CommonOptions is reserved for per-call header options shared by all resources.
type CommonOptions struct{}

// ToHeaders builds the request headers for a backend call. The CSRF token is
// sent both as X-CSRFToken and as its cookie so the backend's double-submit
// check sees a matching pair.
func ToHeaders(csrfToken, sessionID *string, _ CommonOptions) http.Header {
	headers := make(http.Header)
	var cookies []string

	if sessionID != nil && *sessionID != "" {
		cookies = append(cookies, (&http.Cookie{Name: SessionCookieName, Value: *sessionID}).String())
	}
	if csrfToken != nil && *csrfToken != "" {
		SetCSRFToken(*csrfToken, headers)
		cookies = append(cookies, (&http.Cookie{Name: CSRFCookieName, Value: *csrfToken}).String())
	}
	if len(cookies) > 0 {
		headers.Set("Cookie", strings.Join(cookies, "; "))
	}
	return headers
}

// SetCSRFToken sets the X-CSRFToken header.
func SetCSRFToken(token string, headers http.Header) {
	headers.Set(CSRFHeaderName, token)
}

// GetCSRFToken extracts the csrftoken value from a raw Cookie header.
func GetCSRFToken(cookieHeader string) string {
	return cookieValue(cookieHeader, CSRFCookieName)
}

// GetSessionID returns the sessionid cookie of an incoming request.
func GetSessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionFromRequest collects both backend credentials from the browser's cookies.
func SessionFromRequest(r *http.Request) Session {
	return Session{
		CSRFToken: GetCSRFToken(r.Header.Get("Cookie")),
		SessionID: GetSessionID(r),
	}
}

func cookieValue(cookieHeader, name string) string {
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		// a single malformed pair makes ParseCookie reject the whole header
		for _, part := range strings.Split(cookieHeader, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && key == name {
				return value
			}
		}
		return ""
	}
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
