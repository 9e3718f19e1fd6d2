package utils

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/henhouse-dev/henhouse/shared/errors"
)

// WriteErrorAndStatusCode writes err as a plain text response. Errors
// without a status become a bare 500 so internals never leak.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	// default error is 500
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// SafeRedirect returns target when it is a path on this site, otherwise fallback.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}
