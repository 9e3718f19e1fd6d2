package setup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henhouse-dev/henhouse/frontend/internal/handler"
	"github.com/henhouse-dev/henhouse/shared/config"
)

func renderNotFound(h *handler.Handler) string {
	rr := httptest.NewRecorder()
	h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	return rr.Body.String()
}

func TestWatchTemplates_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, baseTemplate, `{{template "content" .}}`)
	writeTemplate(t, dir, partialsTemplate, ``)
	writeTemplate(t, dir, "error.html", `{{define "content"}}v1{{end}}`)

	templates, err := loadTemplates(dir)
	require.NoError(t, err)
	h := handler.New(templates, config.Public{}, nil, nil, nil)
	require.Equal(t, "v1", renderNotFound(h))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watchTemplates(ctx, h, dir))

	writeTemplate(t, dir, "error.html", `{{define "content"}}v2{{end}}`)
	assert.Eventually(t, func() bool {
		return renderNotFound(h) == "v2"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchTemplates_BrokenEditKeepsPreviousSet(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, baseTemplate, `{{template "content" .}}`)
	writeTemplate(t, dir, partialsTemplate, ``)
	writeTemplate(t, dir, "error.html", `{{define "content"}}ok{{end}}`)

	templates, err := loadTemplates(dir)
	require.NoError(t, err)
	h := handler.New(templates, config.Public{}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watchTemplates(ctx, h, dir))

	writeTemplate(t, dir, "error.html", `{{define "content"}}{{.Broken`)
	time.Sleep(4 * templateReloadDebounce)
	assert.Equal(t, "ok", renderNotFound(h))
}

func TestWatchTemplates_MissingDir(t *testing.T) {
	err := watchTemplates(context.Background(), nil, "/does/not/exist")
	assert.Error(t, err)
}
