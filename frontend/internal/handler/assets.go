package handler

import (
	"encoding/json"
	"net/http"

	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	"github.com/henhouse-dev/henhouse/shared/logger"
)

// ConfigJSONHandler exposes the settings browser scripts need.
func (h *Handler) ConfigJSONHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")

	cfg := frontend_domain.PublicConfig{
		APIHost:          h.Public.PublicAPIHost,
		DefaultPageLimit: h.listLimit(),
	}
	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		logger.Log.Error("encoding public config", "error", err)
	}
}
