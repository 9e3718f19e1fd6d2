package errors

import "net/http"

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// NotFound builds a 404 error.
func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

// BadRequest builds a 400 error.
func BadRequest(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// TooManyRequests builds a 429 error.
func TooManyRequests(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusTooManyRequests}
}
