package setup

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	"github.com/henhouse-dev/henhouse/frontend/internal/handler"
	"github.com/henhouse-dev/henhouse/frontend/internal/markdown"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/config"
	"github.com/henhouse-dev/henhouse/shared/logger"
	"github.com/henhouse-dev/henhouse/shared/middleware/ratelimiter"
)

const (
	baseTemplate           = "base.html"
	partialsTemplate       = "partials.html"
	templateReloadDebounce = 200 * time.Millisecond
	cacheJanitorInterval   = time.Minute
	rateLimitBurst         = 5
	rateLimitExpiry        = 10 * time.Minute
)

type Dependencies struct {
	Handler      *handler.Handler
	Public       config.Public
	MetricsToken string
	// LoginLimiter throttles login and registration attempts; nil when disabled.
	LoginLimiter *ratelimiter.KeyedRateLimiter
	CancelFunc   context.CancelFunc
}

// Close stops background work started by SetupDependencies.
func (d *Dependencies) Close() {
	d.CancelFunc()
	if d.LoginLimiter != nil {
		d.LoginLimiter.Stop()
	}
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	// Create cancellable context for background tasks
	ctx, cancel := context.WithCancel(context.Background())

	templates, err := loadTemplates(cfg.Public.TemplatesPath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	cache := querycache.New(cfg.Public.QueryCacheTTL)
	cache.StartJanitor(ctx, cacheJanitorInterval)

	apiClient := apiclient.New(cfg.Public.APIHost, cfg.Public.APITimeout)
	h := handler.New(templates, cfg.Public, markdown.New(), apiClient, cache)
	if os.Getenv("ENV") == "development" {
		if err := watchTemplates(ctx, h, cfg.Public.TemplatesPath); err != nil {
			// the site still works, edits just need a restart
			logger.Log.Warn("template reloading disabled", "error", err)
		}
	}

	var limiter *ratelimiter.KeyedRateLimiter
	if cfg.Public.LoginRateLimit > 0 {
		limiter = ratelimiter.New(cfg.Public.LoginRateLimit, rateLimitBurst, rateLimitExpiry)
		limiter.StartCleanup(rateLimitExpiry)
	}

	return &Dependencies{
		Handler:      h,
		Public:       cfg.Public,
		MetricsToken: cfg.MetricsToken(),
		LoginLimiter: limiter,
		CancelFunc:   cancel,
	}, nil
}

func sub(a, b int) int { return a - b }
func add(a, b int) int { return a + b }

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// formatDate renders an optional timestamp; nil means not yet published.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2 Jan 2006")
}

func templateFuncs(tp *markdown.TextProcessor) template.FuncMap {
	return template.FuncMap{
		"sub":        sub,
		"add":        add,
		"dict":       dict,
		"hasPrefix":  strings.HasPrefix,
		"formatDate": formatDate,
		"excerpt":    tp.Excerpt,
		"join":       strings.Join,
	}
}

// loadTemplates parses every page template together with the base layout
// and the shared partials.
func loadTemplates(tmplPath string) (map[string]*template.Template, error) {
	files, err := os.ReadDir(tmplPath)
	if err != nil {
		return nil, err
	}

	funcs := templateFuncs(markdown.New())
	templates := make(map[string]*template.Template)
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".html" || f.Name() == baseTemplate || f.Name() == partialsTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFiles(
			path.Join(tmplPath, baseTemplate),
			path.Join(tmplPath, f.Name()),
			path.Join(tmplPath, partialsTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
		templates[f.Name()] = tmpl
	}
	return templates, nil
}
