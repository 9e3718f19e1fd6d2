package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	token string
	err   error
	calls int
}

func (f *fakeIssuer) GetCSRFToken(ctx context.Context) (*http.Cookie, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &http.Cookie{Name: "csrftoken", Value: f.token, Domain: "backend.internal"}, nil
}

func TestEnsureCSRFToken(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCSRFTokenFromContext(r)
	})

	t.Run("fetches a token when the cookie is missing", func(t *testing.T) {
		issuer := &fakeIssuer{token: "issued"}
		rr := httptest.NewRecorder()
		EnsureCSRFToken(CSRFConfig{Issuer: issuer})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "issued", seen)
		assert.Equal(t, 1, issuer.calls)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "csrftoken", cookies[0].Name)
		assert.Equal(t, "issued", cookies[0].Value)
		assert.Empty(t, cookies[0].Domain)
	})

	t.Run("reuses the existing cookie", func(t *testing.T) {
		issuer := &fakeIssuer{token: "issued"}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: "existing"})
		EnsureCSRFToken(CSRFConfig{Issuer: issuer})(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "existing", seen)
		assert.Zero(t, issuer.calls)
	})

	t.Run("backend failure still serves the page", func(t *testing.T) {
		issuer := &fakeIssuer{err: errors.New("down")}
		rr := httptest.NewRecorder()
		EnsureCSRFToken(CSRFConfig{Issuer: issuer})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, seen)
	})
}

func TestValidateCSRFToken(t *testing.T) {
	token := "test-token-123"

	tests := []struct {
		name           string
		method         string
		cookie         *http.Cookie
		formToken      string
		expectedStatus int
	}{
		{"valid POST request", http.MethodPost, &http.Cookie{Name: "csrftoken", Value: token}, token, http.StatusOK},
		{"GET request (no validation)", http.MethodGet, nil, "", http.StatusOK},
		{"missing cookie", http.MethodPost, nil, token, http.StatusForbidden},
		{"missing form token", http.MethodPost, &http.Cookie{Name: "csrftoken", Value: token}, "", http.StatusForbidden},
		{"mismatched tokens", http.MethodPost, &http.Cookie{Name: "csrftoken", Value: token}, "different-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ValidateCSRFToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			form := url.Values{}
			if tt.formToken != "" {
				form.Set("csrf_token", tt.formToken)
			}
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}
