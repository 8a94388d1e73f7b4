// Package errs defines the error shape returned to API clients.
package errs

import (
	"net/http"
	"strings"
)

// HTTPError is an error that knows its response status. Status is not
// serialized; the client sees it on the status line.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`

	// Path is set by the fallback responder only.
	Path string `json:"path,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) WithPath(path string) *HTTPError {
	return &HTTPError{Code: e.Code, Message: e.Message, Status: e.Status, Path: path}
}

func codeFor(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func newError(status int, message string) *HTTPError {
	return &HTTPError{Code: codeFor(status), Message: message, Status: status}
}

func NewBadRequestError(message string) *HTTPError {
	return newError(http.StatusBadRequest, message)
}

func NewNotFoundError(message string) *HTTPError {
	return newError(http.StatusNotFound, message)
}

func NewTooManyRequestsError() *HTTPError {
	return newError(http.StatusTooManyRequests, "rate limit exceeded")
}

// NewInternalServerError carries a client-safe message; the cause is logged,
// never sent.
func NewInternalServerError(message string) *HTTPError {
	if message == "" {
		message = "an error occurred while processing the request"
	}
	return newError(http.StatusInternalServerError, message)
}

func NewServiceUnavailableError(message string) *HTTPError {
	return newError(http.StatusServiceUnavailable, message)
}
