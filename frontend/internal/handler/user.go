package handler

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/domain"
)

func userPageData(user domain.UserDetails) frontend_domain.UserPageData {
	data := frontend_domain.UserPageData{User: user}
	for _, key := range slices.Sorted(maps.Keys(user.Attributes)) {
		if v := user.Attributes[key]; v != nil {
			data.Attributes = append(data.Attributes, frontend_domain.Attribute{Key: key, Value: *v})
		}
	}
	return data
}

func (h *Handler) UserGetHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.APIClient.GetUserDetails(r.Context(), session(r))
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "user.html", userPageData(user))
}

// UserAttributesPostHandler saves the attribute rows of the account page.
// A row whose value was cleared removes that attribute.
func (h *Handler) UserAttributesPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	keys := r.PostForm["attrKey"]
	values := r.PostForm["attrValue"]
	attributes := make(map[string]*string, len(keys)+1)
	for i, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		var value string
		if i < len(values) {
			value = strings.TrimSpace(values[i])
		}
		if value == "" {
			attributes[key] = nil
		} else {
			attributes[key] = &value
		}
	}
	if key := strings.TrimSpace(r.PostFormValue("newKey")); key != "" {
		value := strings.TrimSpace(r.PostFormValue("newValue"))
		attributes[key] = &value
	}

	sess := session(r)
	if err := h.APIClient.UpdateUserAttributes(r.Context(), sess, api.UpdateUserAttributesRequest{Attributes: attributes}); err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.redirectWithFlash(w, r, "/user", mw.FlashCookieError, msg)
		}
		return
	}
	h.invalidate(querycache.Key(cacheUser, sess.SessionID))

	h.redirectWithFlash(w, r, "/user", mw.FlashCookieSuccess, "Profile saved")
}

func (h *Handler) UserPasswordPostHandler(w http.ResponseWriter, r *http.Request) {
	password := r.PostFormValue("password")
	if password == "" {
		h.redirectWithFlash(w, r, "/user", mw.FlashCookieError, "Password is required")
		return
	}
	if password != r.PostFormValue("confirmPassword") {
		h.redirectWithFlash(w, r, "/user", mw.FlashCookieError, passwordMismatchMessage)
		return
	}

	if err := h.APIClient.ChangePassword(r.Context(), session(r), api.ChangePasswordRequest{Password: password}); err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.redirectWithFlash(w, r, "/user", mw.FlashCookieError, msg)
		}
		return
	}
	h.redirectWithFlash(w, r, "/user", mw.FlashCookieSuccess, "Password changed")
}

func (h *Handler) PasswordResetPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.APIClient.RequestPasswordReset(r.Context(), session(r)); err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.redirectWithFlash(w, r, "/user", mw.FlashCookieError, msg)
		}
		return
	}
	h.redirectWithFlash(w, r, "/user", mw.FlashCookieSuccess, "Check your email for a confirmation link")
}

func (h *Handler) PasswordResetConfirmPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.APIClient.PasswordResetConfirm(r.Context(), session(r)); err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.redirectWithFlash(w, r, "/user", mw.FlashCookieError, msg)
		}
		return
	}
	h.redirectWithFlash(w, r, "/user", mw.FlashCookieSuccess, "Password reset confirmed")
}

func (h *Handler) UserDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	if err := h.APIClient.DeleteUser(r.Context(), sess); err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	h.invalidate(querycache.Key(cacheUser, sess.SessionID), cacheStories)

	mw.ClearCookie(w, apiclient.SessionCookieName)
	h.redirectWithFlash(w, r, "/", mw.FlashCookieSuccess, "Your account has been deleted")
}
