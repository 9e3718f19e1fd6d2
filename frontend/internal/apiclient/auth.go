package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/domain"
)

const authPrefix = "/api/appadmin"

// ErrNoCSRFCookie is returned when the backend's CSRF endpoint set no csrftoken cookie.
var ErrNoCSRFCookie = errors.New("backend did not issue a csrf cookie")

// Register sends a registration request. The backend answers 409 when
// the username or email is taken.
func (c *APIClient) Register(ctx context.Context, sess Session, body api.RegisterRequest) error {
	const op = "Register"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	// a stale session cookie must not turn a rejected registration into a logout
	registerSess := Session{CSRFToken: sess.CSRFToken}
	_, err := fetchEmpty(ctx, c, op, registerSess, http.MethodPost, authPrefix+"/register", ToHeaders(sess.csrf(), nil, CommonOptions{}), body)
	return err
}

// Login returns the cookies set by the backend, the session cookie among
// them, so they can be forwarded to the browser.
func (c *APIClient) Login(ctx context.Context, sess Session, body api.LoginRequest) ([]*http.Cookie, error) {
	const op = "Login"
	if err := requireCSRF(sess); err != nil {
		return nil, c.fail(ctx, op, sess, err)
	}
	// no session id: a login attempt must not be mistaken for an expired session
	loginSess := Session{CSRFToken: sess.CSRFToken}
	resp, err := fetchEmpty(ctx, c, op, loginSess, http.MethodPost, authPrefix+"/login", ToHeaders(sess.csrf(), nil, CommonOptions{}), body)
	if err != nil {
		return nil, err
	}
	return resp.Cookies(), nil
}

// Logout ends the backend session.
func (c *APIClient) Logout(ctx context.Context, sess Session) error {
	const op = "Logout"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodPost, authPrefix+"/logout", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), nil)
	return err
}

// ChangePassword sets a new password for the session user.
func (c *APIClient) ChangePassword(ctx context.Context, sess Session, body api.ChangePasswordRequest) error {
	const op = "ChangePassword"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodPut, authPrefix+"/user/password", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), body)
	return err
}

// RequestPasswordReset asks the backend to email a password reset link.
func (c *APIClient) RequestPasswordReset(ctx context.Context, sess Session) error {
	const op = "RequestPasswordReset"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodPost, authPrefix+"/user/passwordreset", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), struct{}{})
	return err
}

// PasswordResetConfirm confirms a pending password reset.
func (c *APIClient) PasswordResetConfirm(ctx context.Context, sess Session) error {
	const op = "PasswordResetConfirm"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodPost, authPrefix+"/user/passwordresetconfirm", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), struct{}{})
	return err
}

// GetUserDetails returns the logged-in user. Without a valid session the
// backend answers 401, surfaced as *ResponseError.
func (c *APIClient) GetUserDetails(ctx context.Context, sess Session) (domain.UserDetails, error) {
	return fetchJSON[domain.UserDetails](ctx, c, "GetUserDetails", sess, http.MethodGet, authPrefix+"/user", ToHeaders(nil, sess.session(), CommonOptions{}), nil)
}

// UserLookup resolves public profiles for the given user ids in one call.
func (c *APIClient) UserLookup(ctx context.Context, sess Session, userIDs []string) ([]domain.User, error) {
	params := MultiEntryQueryParams{{Key: "userIds", Values: userIDs}}
	path := authPrefix + "/user/lookup" + GenerateMultiEntryQueryString(params)
	return fetchJSON[[]domain.User](ctx, c, "UserLookup", sess, http.MethodGet, path, ToHeaders(nil, sess.session(), CommonOptions{}), nil)
}

// UpdateUserAttributes replaces the listed attributes of the session user.
func (c *APIClient) UpdateUserAttributes(ctx context.Context, sess Session, body api.UpdateUserAttributesRequest) error {
	const op = "UpdateUserAttributes"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodPut, authPrefix+"/user/attributes", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), body)
	return err
}

// DeleteUser deletes the session user's account.
func (c *APIClient) DeleteUser(ctx context.Context, sess Session) error {
	const op = "DeleteUser"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodDelete, authPrefix+"/user", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), nil)
	return err
}

// GetCSRFToken asks the backend to issue a CSRF cookie and returns it.
func (c *APIClient) GetCSRFToken(ctx context.Context) (*http.Cookie, error) {
	const op = "GetCSRFToken"
	resp, err := fetchEmpty(ctx, c, op, Session{}, http.MethodGet, authPrefix+"/csrf", ToHeaders(nil, nil, CommonOptions{}), nil)
	if err != nil {
		return nil, err
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == CSRFCookieName && cookie.Value != "" {
			return cookie, nil
		}
	}
	return nil, c.fail(ctx, op, Session{}, ErrNoCSRFCookie)
}
