package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/shared/logger"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	return frontend_domain.CommonTemplateData{
		Error:     mw.PopFlash(w, r, mw.FlashCookieError),
		Success:   mw.PopFlash(w, r, mw.FlashCookieSuccess),
		LoggedIn:  apiclient.GetSessionID(r) != "",
		CSRFToken: mw.GetCSRFTokenFromContext(r),
		Path:      r.URL.RequestURI(),
		Limits:    frontend_domain.DefaultFormLimits,
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	h.renderTemplateStatus(w, r, http.StatusOK, name, data, errMsg)
}

// renderTemplateStatus renders into a buffer first so a failing template
// never leaves a half-written page behind.
func (h *Handler) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any, errMsg string) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ErrorPageData is rendered by error.html.
type ErrorPageData struct {
	Status  int
	Message string
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.renderTemplateStatus(w, r, status, "error.html", ErrorPageData{Status: status, Message: message}, "")
}

// NotFound renders the 404 page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}
