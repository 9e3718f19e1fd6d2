package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/frontend/internal/setup"
	sharedmw "github.com/henhouse-dev/henhouse/shared/middleware"
	"github.com/henhouse-dev/henhouse/shared/middleware/metrics"
)

func SetupRouter(deps *setup.Dependencies) *chi.Mux {
	h := deps.Handler
	secure := deps.Public.SecureCookies

	r := chi.NewRouter()
	if deps.Public.BehindProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(sharedmw.SecurityHeaders(sharedmw.SecurityConfig{
		HTTPS:      secure,
		ConnectSrc: []string{deps.Public.PublicAPIHost},
	}))
	r.NotFound(h.NotFound)

	r.Handle("/metrics", metrics.Handler(deps.MetricsToken))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.Public.StaticPath))))

	r.Route("/assets", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.Public.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
		r.Get("/config.json", h.ConfigJSONHandler)
	})

	throttle := func(next http.Handler) http.Handler { return next }
	if deps.LoginLimiter != nil {
		byIP := sharedmw.RateLimit(deps.LoginLimiter, sharedmw.GetIP)
		byAccount := sharedmw.RateLimit(deps.LoginLimiter, sharedmw.GetFieldFromForm("usernameEmail"))
		throttle = func(next http.Handler) http.Handler { return byIP(byAccount(next)) }
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.Session(secure))
		r.Use(mw.EnsureCSRFToken(mw.CSRFConfig{SecureCookies: secure, Issuer: h.APIClient}))
		r.Use(mw.ValidateCSRFToken())

		r.Get("/", h.StoriesGetHandler)
		r.Get("/stories", h.StoriesGetHandler)
		r.Get("/stories/search", h.SearchGetHandler)
		r.Post("/stories/search", h.SearchPostHandler)
		r.Get("/stories/{storyId}", h.StoryGetHandler)
		r.Get("/stories/{storyId}/{chapterNum}", h.ChapterGetHandler)

		r.Get("/login", h.LoginGetHandler)
		r.With(throttle).Post("/login", h.LoginPostHandler)
		r.Get("/register", h.RegisterGetHandler)
		r.With(throttle).Post("/register", h.RegisterPostHandler)
		r.Get("/register/success", h.RegisterSuccessGetHandler)
		r.Post("/logout", h.LogoutHandler)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(mw.NeedSession(secure))

			r.Get("/stories/my", h.MyStoriesGetHandler)
			r.Get("/stories/create", h.StoryCreateGetHandler)
			r.Post("/stories/create", h.StoryCreatePostHandler)
			r.Get("/stories/{storyId}/edit", h.StoryEditGetHandler)
			r.Post("/stories/{storyId}/edit", h.StoryEditPostHandler)
			r.Post("/stories/{storyId}/delete", h.StoryDeletePostHandler)

			r.Get("/stories/{storyId}/chapter/create", h.ChapterCreateGetHandler)
			r.Post("/stories/{storyId}/chapter/create", h.ChapterCreatePostHandler)
			r.Get("/stories/{storyId}/{chapterNum}/edit", h.ChapterEditGetHandler)
			r.Post("/stories/{storyId}/{chapterNum}/edit", h.ChapterEditPostHandler)
			r.Post("/chapters/{chapterId}/delete", h.ChapterDeletePostHandler)

			r.Get("/user", h.UserGetHandler)
			r.Post("/user/attributes", h.UserAttributesPostHandler)
			r.Post("/user/password", h.UserPasswordPostHandler)
			r.Post("/user/password-reset", h.PasswordResetPostHandler)
			r.Post("/user/password-reset/confirm", h.PasswordResetConfirmPostHandler)
			r.Post("/user/delete", h.UserDeletePostHandler)
		})
	})

	return r
}

// compile-time check that the API client can issue CSRF cookies
var _ mw.CSRFIssuer = (*apiclient.APIClient)(nil)
