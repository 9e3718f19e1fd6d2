// Package csrf implements the double-submit check for tokens issued by the
// backend: the token held in the browser's cookie must be echoed back in
// the submitted form or in a request header.
package csrf

import (
	"crypto/subtle"
	"net/http"
)

const (
	FormField  = "csrf_token"
	HeaderName = "X-CSRFToken"
)

// ValidateToken compares the cookie token with the submitted token in constant time.
func ValidateToken(cookieToken, submitted string) bool {
	if cookieToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) == 1
}

// Submitted returns the token sent with r, preferring the form field over
// the header. The form must already be parsed.
func Submitted(r *http.Request) string {
	if token := r.PostFormValue(FormField); token != "" {
		return token
	}
	return r.Header.Get(HeaderName)
}
