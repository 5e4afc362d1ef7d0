package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinel errors for error classification
var (
	ErrBadRequest          = errors.New(http.StatusText(http.StatusBadRequest))
	ErrNotFound            = errors.New(http.StatusText(http.StatusNotFound))
	ErrConflict            = errors.New(http.StatusText(http.StatusConflict))
	ErrInternalServerError = errors.New(http.StatusText(http.StatusInternalServerError))
	ErrNotImplemented      = errors.New(http.StatusText(http.StatusNotImplemented))
	ErrBadGateway          = errors.New(http.StatusText(http.StatusBadGateway))
	ErrServiceUnavailable  = errors.New(http.StatusText(http.StatusServiceUnavailable))
)

// Error represents a structured API error response
type Error struct {
	cause    error  // The original error (for logging/debugging)
	message  string // Safe user-facing message
	title    string // Optional headline shown above the message
	httpCode int    // HTTP status code (also used as API error code)
}

// HTTPCode returns the HTTP status code for this error
func (e *Error) HTTPCode() int {
	return e.httpCode
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// Is implements error checking for sentinel errors
func (e *Error) Is(target error) bool {
	return errors.Is(e.cause, target)
}

// Cause returns the original error for logging purposes
func (e *Error) Cause() error {
	return e.cause
}

// WithTitle returns a copy carrying a headline for the user
func (e *Error) WithTitle(title string) *Error {
	c := *e
	c.title = title
	return &c
}

// MarshalJSON implements json.Marshaler interface
func (e *Error) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"code":    e.httpCode,
		"message": e.message,
	}
	if e.title != "" {
		body["title"] = e.title
	}
	return json.Marshal(body)
}

// Constructor functions for different error types

// 4xx errors are safe to expose

func BadRequest(cause error) *Error {
	return clientError(cause, http.StatusBadRequest)
}

func NotFound(cause error) *Error {
	return clientError(cause, http.StatusNotFound)
}

func Conflict(cause error) *Error {
	return clientError(cause, http.StatusConflict)
}

func clientError(cause error, code int) *Error {
	return &Error{
		cause:    cause,
		message:  cause.Error(),
		httpCode: code,
	}
}

func InternalServerError(cause error) *Error {
	return &Error{
		cause:    cause,
		message:  http.StatusText(http.StatusInternalServerError), // Never expose internal error details
		httpCode: http.StatusInternalServerError,
	}
}

// NotImplemented reports an operation the wallet cannot perform yet
func NotImplemented(cause error) *Error {
	return &Error{
		cause:    cause,
		message:  cause.Error(),
		httpCode: http.StatusNotImplemented,
	}
}

// BadGateway reports a rejection by the wallet backend with a user-facing notification
func BadGateway(cause error, notification string) *Error {
	return &Error{
		cause:    cause,
		message:  notification,
		httpCode: http.StatusBadGateway,
	}
}

func ServiceUnavailable(cause error) *Error {
	return &Error{
		cause:    cause,
		message:  http.StatusText(http.StatusServiceUnavailable),
		httpCode: http.StatusServiceUnavailable,
	}
}

// Wrap transforms any error into a safe API error
// If the error is already an API error, it returns it unchanged
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return InternalServerError(err)
}
