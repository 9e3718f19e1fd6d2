package router

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	"github.com/henhouse-dev/henhouse/frontend/internal/handler"
	"github.com/henhouse-dev/henhouse/frontend/internal/markdown"
	"github.com/henhouse-dev/henhouse/frontend/internal/setup"
	"github.com/henhouse-dev/henhouse/shared/config"
	"github.com/henhouse-dev/henhouse/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, limiter *ratelimiter.KeyedRateLimiter) http.Handler {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/appadmin/csrf":
			http.SetCookie(w, &http.Cookie{Name: apiclient.CSRFCookieName, Value: "issued"})
			w.WriteHeader(http.StatusOK)
		case "/api/appadmin/login":
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(backend.Close)

	templates := map[string]*template.Template{
		"login.html": template.Must(template.New("login.html").Parse(`login {{.Common.CSRFToken}}`)),
		"error.html": template.Must(template.New("error.html").Parse(`{{.Data.Status}}`)),
	}
	public := config.Public{
		PublicAPIHost:    "https://api.henhouse.test",
		DefaultPageLimit: 20,
		AllowedOrigins:   []string{"https://henhouse.test"},
		StaticPath:       t.TempDir(),
	}
	_, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deps := &setup.Dependencies{
		Handler:      handler.New(templates, public, markdown.New(), apiclient.New(backend.URL, 5*time.Second), nil),
		Public:       public,
		MetricsToken: "",
		LoginLimiter: limiter,
		CancelFunc:   cancel,
	}
	return SetupRouter(deps)
}

func loginRequest() *http.Request {
	form := url.Values{"usernameEmail": {"hen"}, "password": {"wrong"}, "csrf_token": {"tok"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: apiclient.CSRFCookieName, Value: "tok"})
	req.RemoteAddr = "10.0.0.1:1234"
	return req
}

func TestRouter_IssuesCSRFTokenOnFirstVisit(t *testing.T) {
	r := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "login issued", rr.Body.String())
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestRouter_RejectsPostWithoutCSRF(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("usernameEmail=hen"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_ProtectedRouteRedirectsToLogin(t *testing.T) {
	r := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stories/my", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?redirectTo=%2Fstories%2Fmy", rr.Header().Get("Location"))
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	r := newTestRouter(t, ratelimiter.New(0.001, 1, time.Minute))

	first := httptest.NewRecorder()
	r.ServeHTTP(first, loginRequest())
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, loginRequest())
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRouter_PublicConfig(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/assets/config.json", nil)
	req.Header.Set("Origin", "https://henhouse.test")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://henhouse.test", rr.Header().Get("Access-Control-Allow-Origin"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "https://api.henhouse.test", body["apiHost"])
	assert.Equal(t, float64(20), body["defaultPageLimit"])
}

func TestRouter_NotFoundAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "henhouse_http_requests_total")
}
