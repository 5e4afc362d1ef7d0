// Package httpkit holds the small pieces shared by the JSON handlers and the request logger.
package httpkit

import (
	"context"
	"encoding/json"
	"net/http"
)

// HTTPError is an error that knows its status code and keeps the detailed cause for logs
type HTTPError interface {
	HTTPCode() int
	Cause() error
	error
}

// HandlerFunc picks the response writer to run.
// Returning nil means the handler already wrote the response.
type HandlerFunc func(http.ResponseWriter, *http.Request) http.HandlerFunc

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(WithErrorTracking(r.Context()))

	if respond := h(w, r); respond != nil {
		respond(w, r)
	}
}

// JSON responds 200 with data
func JSON(data any) http.HandlerFunc {
	return JSONStatus(http.StatusOK, data)
}

// Accepted responds 202 with data, for commands whose effect completes later
func Accepted(data any) http.HandlerFunc {
	return JSONStatus(http.StatusAccepted, data)
}

// JSONStatus responds with the given status code and data
func JSONStatus(code int, data any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, code, data)
	}
}

// JsonError records err for the request logger and responds with its status code
func JsonError(err HTTPError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SetError(r.Context(), err)
		writeJSON(w, err.HTTPCode(), err)
	}
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	header := w.Header()
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if header.Get("X-Content-Type-Options") == "" {
		header.Set("X-Content-Type-Options", "nosniff")
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// Request-scoped error slot shared between handlers and the request logger
// -------------------------------------------------------------------------

type errorSlotKey struct{}

type errorSlot struct {
	err error
}

// WithErrorTracking returns ctx with an error slot, reusing one that is already there
func WithErrorTracking(ctx context.Context) context.Context {
	if slotFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, errorSlotKey{}, &errorSlot{})
}

// SetError stores err in the request's slot; it is dropped when ctx has none
func SetError(ctx context.Context, err error) {
	if slot := slotFrom(ctx); slot != nil {
		slot.err = err
	}
}

// Error returns the error stored for the request, if any
func Error(ctx context.Context) error {
	if slot := slotFrom(ctx); slot != nil {
		return slot.err
	}
	return nil
}

func slotFrom(ctx context.Context) *errorSlot {
	slot, _ := ctx.Value(errorSlotKey{}).(*errorSlot)
	return slot
}
