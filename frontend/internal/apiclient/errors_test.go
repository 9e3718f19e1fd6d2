package apiclient

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shapedErr struct{}

func (shapedErr) Error() string { return "shaped" }
func (shapedErr) Status() int   { return http.StatusServiceUnavailable }
func (shapedErr) Text() string  { return "down for maintenance" }

func TestHandleError(t *testing.T) {
	ctx := context.Background()

	t.Run("response error passes through unchanged", func(t *testing.T) {
		original := &ResponseError{Text: "nope", Status: http.StatusForbidden}
		got := HandleError(ctx, "GetStory", original)
		assert.Same(t, original, got)
	})

	t.Run("http shaped error becomes FetchError", func(t *testing.T) {
		got := HandleError(ctx, "GetStory", shapedErr{})

		var fetchErr *FetchError
		require.ErrorAs(t, got, &fetchErr)
		assert.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
		assert.Equal(t, "down for maintenance", fetchErr.Text)
	})

	t.Run("transport failure becomes FetchError", func(t *testing.T) {
		got := HandleError(ctx, "GetStory", &transportError{err: errors.New("connection refused")})

		var fetchErr *FetchError
		require.ErrorAs(t, got, &fetchErr)
		assert.Zero(t, fetchErr.Status)
		assert.Contains(t, fetchErr.Text, "connection refused")
	})

	t.Run("anything else is returned as is", func(t *testing.T) {
		original := errors.New("boom")
		assert.Same(t, original, HandleError(ctx, "GetStory", original))
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(&ResponseError{Status: http.StatusNotFound}))
	assert.True(t, IsNotFound(&ResponseError{Status: http.StatusNotFound}))
	assert.Equal(t, 0, StatusOf(errors.New("x")))
	assert.Equal(t, 0, StatusOf(&FetchError{Status: 0, Text: "down"}))
}
