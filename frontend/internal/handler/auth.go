package handler

import (
	"net/http"
	"strings"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/logger"
	"github.com/henhouse-dev/henhouse/shared/utils"
	"github.com/henhouse-dev/henhouse/shared/validation"
)

const (
	invalidCredentialsMessage = "Invalid username or password"
	accountExistsMessage      = "Username or email already exists"
	passwordMismatchMessage   = "Passwords do not match"
)

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	form := frontend_domain.AuthForm{
		RedirectTo: utils.SafeRedirect(r.URL.Query().Get("redirectTo"), ""),
	}
	h.renderTemplate(w, r, "login.html", form)
}

// LoginPostHandler logs in against the backend and forwards its session and
// CSRF cookies to the browser. Wrong credentials re-render the form with 200
// so the session middleware never mistakes them for an expired session.
func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	form := frontend_domain.AuthForm{
		UsernameEmail: strings.TrimSpace(r.PostFormValue("usernameEmail")),
		StayLoggedIn:  r.PostFormValue("stayLoggedIn") == "on",
		RedirectTo:    utils.SafeRedirect(r.PostFormValue("redirectTo"), ""),
	}
	req := api.LoginRequest{
		UsernameEmail: form.UsernameEmail,
		Password:      r.PostFormValue("password"),
		StayLoggedIn:  form.StayLoggedIn,
	}
	if err := validation.Struct(&req); err != nil {
		form.Errors = validation.FieldErrors(err)
		h.renderTemplate(w, r, "login.html", form)
		return
	}

	cookies, err := h.APIClient.Login(r.Context(), session(r), req)
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusUnauthorized {
			form.Errors = map[string]string{"password": invalidCredentialsMessage}
			h.renderTemplate(w, r, "login.html", form)
			return
		}
		if msg, ok := h.formError(w, r, err); ok {
			h.renderTemplateWithError(w, r, "login.html", form, msg)
		}
		return
	}

	for _, c := range cookies {
		mw.ForwardCookie(w, c, h.Public.SecureCookies)
	}
	http.Redirect(w, r, utils.SafeRedirect(form.RedirectTo, "/stories"), http.StatusSeeOther)
}

func (h *Handler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "register.html", frontend_domain.AuthForm{})
}

func (h *Handler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	form := frontend_domain.AuthForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}
	req := api.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: r.PostFormValue("password"),
	}
	if err := validation.Struct(&req); err != nil {
		form.Errors = validation.FieldErrors(err)
	}
	if req.Password != r.PostFormValue("confirmPassword") {
		if form.Errors == nil {
			form.Errors = make(map[string]string)
		}
		form.Errors["confirmPassword"] = passwordMismatchMessage
	}
	if len(form.Errors) > 0 {
		h.renderTemplate(w, r, "register.html", form)
		return
	}

	if err := h.APIClient.Register(r.Context(), session(r), req); err != nil {
		if apiclient.StatusOf(err) == http.StatusConflict {
			h.renderTemplateWithError(w, r, "register.html", form, accountExistsMessage)
			return
		}
		if msg, ok := h.formError(w, r, err); ok {
			h.renderTemplateWithError(w, r, "register.html", form, msg)
		}
		return
	}

	http.Redirect(w, r, "/register/success", http.StatusSeeOther)
}

func (h *Handler) RegisterSuccessGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "register_success.html", nil)
}

// LogoutHandler ends the backend session. The local cookie is dropped even
// when the backend call fails.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	if err := h.APIClient.Logout(r.Context(), sess); err != nil && apiclient.StatusOf(err) != http.StatusUnauthorized {
		logger.Log.Warn("backend logout failed", "error", err)
	}
	h.invalidate(querycache.Key(cacheUser, sess.SessionID))

	mw.ClearCookie(w, apiclient.SessionCookieName)
	h.redirectWithFlash(w, r, "/", mw.FlashCookieSuccess, "You have been logged out")
}
