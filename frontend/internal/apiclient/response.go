package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/henhouse-dev/henhouse/shared/domain"
	"github.com/henhouse-dev/henhouse/shared/validation"
)

type Page[T any] = domain.Page[T]

// pageEnvelope is the wire shape of a page. Pointers make a missing count or
// items field a validation failure instead of a silent zero value.
type pageEnvelope[T any] struct {
	Count *int `json:"count" validate:"required,min=0"`
	Items []T  `json:"items" validate:"required"`
}

func isOK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func newResponseError(resp *http.Response) *ResponseError {
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		text = []byte(fmt.Sprintf("failed to read response body: %v", err))
	}
	return &ResponseError{
		Text:             string(text),
		Status:           resp.StatusCode,
		OriginalResponse: resp,
	}
}

// decode parses a successful body into T and validates it. Parse and
// validation failures are logged with the raw payload and returned as is.
func decode[T any](body []byte, log *slog.Logger) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		log.Error("failed to parse API response", "payload", string(body), "error", err)
		return out, err
	}
	if err := validation.Value(out); err != nil {
		log.Error("API response failed validation", "payload", string(body), "error", err)
		return out, err
	}
	return out, nil
}

// HandleResponse decodes a 2xx response into T. Any other status yields a
// *ResponseError carrying the body text.
func HandleResponse[T any](resp *http.Response, log *slog.Logger) (T, error) {
	defer resp.Body.Close()

	var zero T
	if !isOK(resp) {
		return zero, newResponseError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response body: %w", err)
	}
	return decode[T](body, log)
}

// HandlePaginatedResponse is HandleResponse for {count, items} envelopes.
func HandlePaginatedResponse[T any](resp *http.Response, log *slog.Logger) (Page[T], error) {
	envelope, err := HandleResponse[pageEnvelope[T]](resp, log)
	if err != nil {
		return Page[T]{}, err
	}
	if err := validation.Value(envelope.Items); err != nil {
		log.Error("API page item failed validation", "error", err)
		return Page[T]{}, err
	}
	return Page[T]{Count: *envelope.Count, Items: envelope.Items}, nil
}

// HandleEmptyResponse checks the status and discards the body.
func HandleEmptyResponse(resp *http.Response) error {
	defer resp.Body.Close()

	if !isOK(resp) {
		return newResponseError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// HandleTextResponse passes the raw body of a 2xx response to toT.
func HandleTextResponse[T any](resp *http.Response, toT func(string) (T, error)) (T, error) {
	defer resp.Body.Close()

	var zero T
	if !isOK(resp) {
		return zero, newResponseError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response body: %w", err)
	}
	return toT(string(body))
}
