package handler

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	"github.com/henhouse-dev/henhouse/frontend/internal/markdown"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/config"
)

type Handler struct {
	mu            sync.RWMutex
	templates     map[string]*template.Template
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	APIClient     *apiclient.APIClient
	Cache         *querycache.Cache
}

func New(templates map[string]*template.Template, publicCfg config.Public, textProcessor *markdown.TextProcessor, apiClient *apiclient.APIClient, cache *querycache.Cache) *Handler {
	return &Handler{
		templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		APIClient:     apiClient,
		Cache:         cache,
	}
}

// SetTemplates swaps the template set, used by the development reloader.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.mu.Lock()
	h.templates = templates
	h.mu.Unlock()
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	tmpl, ok := h.templates[name]
	return tmpl, ok
}

// session returns the backend credentials carried by the browser.
func session(r *http.Request) apiclient.Session {
	return apiclient.SessionFromRequest(r)
}
