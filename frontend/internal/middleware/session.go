package middleware

import (
	"net/http"
	"net/url"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
)

const (
	SessionExpiredMessage = "Your session has expired. Please log in again"
	loginRequiredMessage  = "Please log in to continue"
)

// sessionRedirectWriter turns a 401, or any error response written after the
// backend rejected the session, into a redirect to the login page.
type sessionRedirectWriter struct {
	http.ResponseWriter
	request       *http.Request
	state         *apiclient.SessionState
	secureCookies bool
	redirected    bool
}

func (w *sessionRedirectWriter) WriteHeader(statusCode int) {
	if w.redirected {
		return
	}

	if statusCode == http.StatusUnauthorized || (statusCode >= 400 && w.state.Expired()) {
		w.redirected = true
		RedirectToLogin(w.ResponseWriter, w.request, w.secureCookies, SessionExpiredMessage)
		return
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionRedirectWriter) Write(data []byte) (int, error) {
	if w.redirected {
		return len(data), nil
	}
	return w.ResponseWriter.Write(data)
}

// Session installs the per-request session state consulted by the API
// client's interceptor and redirects to /login once the session is found
// to be expired.
func Session(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, state := apiclient.WithSessionState(r.Context())
			r = r.WithContext(ctx)
			wrapper := &sessionRedirectWriter{
				ResponseWriter: w,
				request:        r,
				state:          state,
				secureCookies:  secureCookies,
			}
			next.ServeHTTP(wrapper, r)
		})
	}
}

// NeedSession sends visitors without a session cookie to the login page.
func NeedSession(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiclient.GetSessionID(r) == "" {
				SetFlash(w, FlashCookieError, loginRequiredMessage, secureCookies)
				http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionExpired reports whether a backend call made for r was rejected with 401.
func SessionExpired(r *http.Request) bool {
	state := apiclient.SessionStateFrom(r.Context())
	return state != nil && state.Expired()
}

// RedirectToLogin drops the session cookie and sends the browser to the
// login page, remembering where it came from.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, secureCookies bool, message string) {
	ClearCookie(w, apiclient.SessionCookieName)
	SetFlash(w, FlashCookieError, message, secureCookies)
	http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
}

func loginURL(r *http.Request) string {
	target := r.URL.Path
	if r.Method != http.MethodGet {
		target = r.Referer()
		if u, err := url.Parse(target); err == nil {
			target = u.Path
		}
	}
	if target == "" || target == "/login" {
		return "/login"
	}
	return "/login?redirectTo=" + url.QueryEscape(target)
}
