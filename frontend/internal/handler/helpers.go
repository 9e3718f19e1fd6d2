package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/logger"
)

const (
	unknownErrorMessage = "An unknown error has occurred. Please try again"
	defaultListLimit    = 20
)

func (h *Handler) listLimit() int {
	if h.Public.DefaultPageLimit > 0 {
		return h.Public.DefaultPageLimit
	}
	return defaultListLimit
}

// cached reads through the query cache when one is configured.
func cached[T any](ctx context.Context, h *Handler, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if h.Cache == nil {
		return fetch(ctx)
	}
	return querycache.Fetch(ctx, h.Cache, key, fetch)
}

// invalidate drops cached reads after a mutation.
func (h *Handler) invalidate(prefixes ...string) {
	if h.Cache == nil {
		return
	}
	for _, p := range prefixes {
		h.Cache.Invalidate(p)
	}
}

// handleAPIError turns a failed backend call into a full page response.
// A rejected session goes to the login page; everything unrecognised gets
// the generic alert.
func (h *Handler) handleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// browser went away
		return
	case apiclient.StatusOf(err) == http.StatusUnauthorized:
		mw.RedirectToLogin(w, r, h.Public.SecureCookies, mw.SessionExpiredMessage)
	case apiclient.IsNotFound(err):
		h.renderError(w, r, http.StatusNotFound, "Not found")
	case apiclient.StatusOf(err) == http.StatusForbidden:
		h.renderError(w, r, http.StatusForbidden, "You are not allowed to do that")
	default:
		logger.Log.Error("backend call failed", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusBadGateway, unknownErrorMessage)
	}
}

// formError returns the message shown above a form for a failed submit,
// or "" when the error has already been answered with a redirect.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, err error) (string, bool) {
	if apiclient.StatusOf(err) == http.StatusUnauthorized {
		mw.RedirectToLogin(w, r, h.Public.SecureCookies, mw.SessionExpiredMessage)
		return "", false
	}
	if errors.Is(err, apiclient.ErrMissingCSRFToken) {
		return "Your form expired. Please try again", true
	}
	var respErr *apiclient.ResponseError
	if errors.As(err, &respErr) && respErr.Status == http.StatusBadRequest && respErr.Text != "" {
		return respErr.Text, true
	}
	logger.Log.Error("form submission failed", "path", r.URL.Path, "error", err)
	return unknownErrorMessage, true
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, cookieName, message string) {
	mw.SetFlash(w, cookieName, message, h.Public.SecureCookies)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// uuidParam reads a route parameter that must be a UUID.
func uuidParam(r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// chapterNumParam reads the 0-based chapter position from the route.
func chapterNumParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "chapterNum"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseLimitOffset reads paging from the query string, clamping the limit
// to the backend's maximum.
func parseLimitOffset(q url.Values, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, apiclient.DefaultPageLimit)
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// pageHref returns a function rendering the current URL at another offset.
func pageHref(r *http.Request, limit int) func(offset int) string {
	return func(offset int) string {
		q := r.URL.Query()
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
		return r.URL.Path + "?" + q.Encode()
	}
}

// splitAndTrim splits a comma separated list, dropping empty entries.
func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
