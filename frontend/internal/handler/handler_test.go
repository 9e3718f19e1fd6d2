package handler

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	"github.com/henhouse-dev/henhouse/frontend/internal/markdown"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storyID   = "0f8fad5b-d9cb-469f-a165-70867728950e"
	creatorID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	chapter0  = "16fd2706-8baf-433b-82eb-8c7fada847da"
	chapter1  = "886313e1-3b8a-5372-9b90-0c9aee199e5d"
)

var testTemplates = map[string]string{
	"error.html":            `{{.Data.Status}} {{.Data.Message}}`,
	"login.html":            `{{.Common.Error}}|{{with .Data.Errors}}{{index . "password"}}{{end}}|{{.Data.RedirectTo}}`,
	"register.html":         `{{.Common.Error}}|{{with .Data.Errors}}{{index . "confirmPassword"}}{{end}}`,
	"register_success.html": `registered`,
	"stories.html":          `{{.Data.Heading}}|{{range .Data.Stories}}{{.Title}} by {{.Username}};{{end}}|{{.Data.Pagination.Pages}}`,
	"story.html":            `{{.Data.Story.Title}}|{{range .Data.Chapters}}{{.Number}}:{{.Name}};{{end}}`,
	"chapter.html":          `{{.Data.Chapter.Name}}|{{.Data.Body}}|{{with .Data.Previous}}prev{{end}}`,
	"search.html":           `{{len .Data.Categories}}|{{.Data.Searched}}`,
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestHandler(t *testing.T, backend http.HandlerFunc, cache *querycache.Cache) *Handler {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	templates := make(map[string]*template.Template, len(testTemplates))
	for name, text := range testTemplates {
		templates[name] = template.Must(template.New(name).Parse(text))
	}
	client := apiclient.New(server.URL, 5*time.Second)
	return New(templates, config.Public{DefaultPageLimit: 20}, markdown.New(), client, cache)
}

// serve routes a single request through chi so URL params resolve.
func serve(method, pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, handler)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: apiclient.CSRFCookieName, Value: "tok"})
	return req
}

func storyBackend(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		story := map[string]any{"uuid": storyID, "title": "Coop", "synopsis": "", "creator": creatorID, "publishedAt": nil}
		switch r.URL.Path {
		case "/api/art/story":
			writeJSON(t, w, map[string]any{"count": 45, "items": []any{story}})
		case "/api/art/story/" + storyID:
			story["category"] = "fiction"
			story["tags"] = []string{"farm"}
			story["createdAt"] = "2024-05-01T10:00:00Z"
			writeJSON(t, w, story)
		case "/api/art/story/" + storyID + "/chapter":
			writeJSON(t, w, map[string]any{"count": 2, "items": []any{
				map[string]any{"uuid": chapter0, "name": "Dawn", "index": 0, "synopsis": ""},
				map[string]any{"uuid": chapter1, "name": "Dusk", "index": 1, "synopsis": ""},
			}})
		case "/api/art/chapter/" + chapter1:
			writeJSON(t, w, map[string]any{
				"uuid": chapter1, "name": "Dusk", "index": 1, "synopsis": "",
				"createdAt": "2024-05-02T10:00:00Z", "publishedAt": nil,
				"markdown": "The **hens** sleep.", "story": storyID,
			})
		case "/api/appadmin/user/lookup":
			writeJSON(t, w, []any{map[string]any{"uuid": creatorID, "username": "hen"}})
		case "/api/art/category":
			writeJSON(t, w, map[string]any{"count": 1, "items": []any{map[string]any{"name": "fiction", "prettyName": "Fiction", "description": ""}}})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestLoginPost(t *testing.T) {
	t.Run("wrong credentials stay on the form", func(t *testing.T) {
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/appadmin/login", r.URL.Path)
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}, nil)

		req := formRequest("/login", url.Values{"usernameEmail": {"hen"}, "password": {"wrong"}})
		rr := serve(http.MethodPost, "/login", h.LoginPostHandler, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Location"))
		assert.Contains(t, rr.Body.String(), invalidCredentialsMessage)
	})

	t.Run("success forwards cookies and follows redirectTo", func(t *testing.T) {
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: apiclient.SessionCookieName, Value: "new-session"})
			w.WriteHeader(http.StatusOK)
		}, nil)

		req := formRequest("/login", url.Values{
			"usernameEmail": {"hen"},
			"password":      {"secret"},
			"redirectTo":    {"/stories/my"},
		})
		rr := serve(http.MethodPost, "/login", h.LoginPostHandler, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/stories/my", rr.Header().Get("Location"))
		var found bool
		for _, c := range rr.Result().Cookies() {
			if c.Name == apiclient.SessionCookieName {
				found = true
				assert.Equal(t, "new-session", c.Value)
			}
		}
		assert.True(t, found)
	})

	t.Run("open redirect is ignored", func(t *testing.T) {
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}, nil)

		req := formRequest("/login", url.Values{
			"usernameEmail": {"hen"},
			"password":      {"secret"},
			"redirectTo":    {"//evil.example"},
		})
		rr := serve(http.MethodPost, "/login", h.LoginPostHandler, req)

		assert.Equal(t, "/stories", rr.Header().Get("Location"))
	})
}

func TestRegisterPost(t *testing.T) {
	valid := url.Values{
		"username":        {"hen"},
		"email":           {"hen@example.com"},
		"password":        {"secret-password"},
		"confirmPassword": {"secret-password"},
	}

	t.Run("existing account", func(t *testing.T) {
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "exists", http.StatusConflict)
		}, nil)

		rr := serve(http.MethodPost, "/register", h.RegisterPostHandler, formRequest("/register", valid))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Location"))
		assert.Contains(t, rr.Body.String(), accountExistsMessage)
	})

	t.Run("password mismatch never reaches the backend", func(t *testing.T) {
		var calls atomic.Int32
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}, nil)

		form := url.Values{}
		for k, v := range valid {
			form[k] = v
		}
		form.Set("confirmPassword", "different")
		rr := serve(http.MethodPost, "/register", h.RegisterPostHandler, formRequest("/register", form))

		assert.Contains(t, rr.Body.String(), passwordMismatchMessage)
		assert.Zero(t, calls.Load())
	})

	t.Run("success", func(t *testing.T) {
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}, nil)

		rr := serve(http.MethodPost, "/register", h.RegisterPostHandler, formRequest("/register", valid))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/register/success", rr.Header().Get("Location"))
	})
}

func TestStoriesGet(t *testing.T) {
	t.Run("lists stories with authors", func(t *testing.T) {
		h := newTestHandler(t, storyBackend(t, nil), nil)

		rr := serve(http.MethodGet, "/stories", h.StoriesGetHandler, httptest.NewRequest(http.MethodGet, "/stories?offset=20", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Stories|Coop by hen;|3", rr.Body.String())
	})

	t.Run("backend failure shows the generic alert", func(t *testing.T) {
		h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, nil)

		rr := serve(http.MethodGet, "/stories", h.StoriesGetHandler, httptest.NewRequest(http.MethodGet, "/stories", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), unknownErrorMessage)
	})

	t.Run("repeated reads are served from cache", func(t *testing.T) {
		var calls atomic.Int32
		h := newTestHandler(t, storyBackend(t, &calls), querycache.New(time.Minute))

		for range 2 {
			rr := serve(http.MethodGet, "/stories", h.StoriesGetHandler, httptest.NewRequest(http.MethodGet, "/stories", nil))
			require.Equal(t, http.StatusOK, rr.Code)
		}
		// one page read plus one user lookup
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestStoryGet(t *testing.T) {
	h := newTestHandler(t, storyBackend(t, nil), nil)

	t.Run("story with chapters", func(t *testing.T) {
		rr := serve(http.MethodGet, "/stories/{storyId}", h.StoryGetHandler, httptest.NewRequest(http.MethodGet, "/stories/"+storyID, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Coop|0:Dawn;1:Dusk;", rr.Body.String())
	})

	t.Run("malformed id", func(t *testing.T) {
		rr := serve(http.MethodGet, "/stories/{storyId}", h.StoryGetHandler, httptest.NewRequest(http.MethodGet, "/stories/not-a-uuid", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown story", func(t *testing.T) {
		other := "11111111-2222-4333-8444-555555555555"
		rr := serve(http.MethodGet, "/stories/{storyId}", h.StoryGetHandler, httptest.NewRequest(http.MethodGet, "/stories/"+other, nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChapterGet(t *testing.T) {
	h := newTestHandler(t, storyBackend(t, nil), nil)
	const pattern = "/stories/{storyId}/{chapterNum}"

	t.Run("renders markdown", func(t *testing.T) {
		rr := serve(http.MethodGet, pattern, h.ChapterGetHandler, httptest.NewRequest(http.MethodGet, "/stories/"+storyID+"/1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Dusk|")
		assert.Contains(t, rr.Body.String(), "<strong>hens</strong>")
		assert.Contains(t, rr.Body.String(), "prev")
	})

	t.Run("out of range", func(t *testing.T) {
		rr := serve(http.MethodGet, pattern, h.ChapterGetHandler, httptest.NewRequest(http.MethodGet, "/stories/"+storyID+"/2", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSearch(t *testing.T) {
	t.Run("post redirects to a shareable url", func(t *testing.T) {
		h := newTestHandler(t, storyBackend(t, nil), nil)

		req := formRequest("/stories/search", url.Values{
			"title":      {"hen house"},
			"range":      {"1w"},
			"newer":      {"on"},
			"categories": {"fiction", "poetry"},
			"sort":       {"date"},
		})
		rr := serve(http.MethodPost, "/stories/search", h.SearchPostHandler, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t,
			"/stories/search?searchTitle=hen%20house&searchDateRange=earlier_than%3A1w&searchCategories=fiction&searchCategories=poetry&sort=date",
			rr.Header().Get("Location"))
	})

	t.Run("unknown range and sort are dropped", func(t *testing.T) {
		h := newTestHandler(t, storyBackend(t, nil), nil)

		req := formRequest("/stories/search", url.Values{"range": {"forever"}, "sort": {"random"}})
		rr := serve(http.MethodPost, "/stories/search", h.SearchPostHandler, req)

		assert.Equal(t, "/stories/search", rr.Header().Get("Location"))
	})

	t.Run("empty search shows only the form", func(t *testing.T) {
		h := newTestHandler(t, storyBackend(t, nil), nil)

		rr := serve(http.MethodGet, "/stories/search", h.SearchGetHandler, httptest.NewRequest(http.MethodGet, "/stories/search", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "1|false", rr.Body.String())
	})
}

func TestSearchFormFrom(t *testing.T) {
	form := searchFormFrom(apiclient.StorySearch{DateRange: "older_than:6M"})
	assert.Equal(t, "6M", form.Range)
	assert.False(t, form.Newer)

	form = searchFormFrom(apiclient.StorySearch{})
	assert.Equal(t, "any", form.Range)
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{query: "", wantLimit: 20, wantOffset: 0},
		{query: "limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{query: "limit=500", wantLimit: apiclient.DefaultPageLimit, wantOffset: 0},
		{query: "limit=-1&offset=-3", wantLimit: 20, wantOffset: 0},
		{query: "limit=abc", wantLimit: 20, wantOffset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			limit, offset := parseLimitOffset(q, 20)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"farm", "hens", "eggs"}, splitAndTrim(" farm, hens ,,eggs,"))
	assert.Empty(t, splitAndTrim(""))
}
