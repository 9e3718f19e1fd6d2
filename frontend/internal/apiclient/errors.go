package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/henhouse-dev/henhouse/shared/logger"
)

// FetchError is a failure of the call itself rather than an error status
// returned by the backend.
type FetchError struct {
	Status int
	Text   string
}

func (e *FetchError) Error() string {
	return e.Text
}

// ResponseError is a non-2xx answer from the backend.
type ResponseError struct {
	Text             string
	Status           int
	OriginalResponse *http.Response
}

func (e *ResponseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Text
}

// statusTexter is the shape of errors that look like an HTTP failure.
type statusTexter interface {
	Status() int
	Text() string
}

// HandleError logs a failed call and classifies err. A *ResponseError is
// returned untouched, HTTP-shaped errors become *FetchError and anything
// else is returned unchanged.
func HandleError(ctx context.Context, op string, err error) error {
	logger.Log.ErrorContext(ctx, "API call failed", "op", op, "error", err)

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return err
	}
	var st statusTexter
	if errors.As(err, &st) {
		return &FetchError{Status: st.Status(), Text: st.Text()}
	}
	return err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Status
	}
	return 0
}

// IsNotFound reports whether err carries a 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
