// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses.
// Mutating endpoints attach the refreshed view and announce it through the
// X-View-Refresh header so clients know to re-render.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"attendance/internal/app"
	"attendance/internal/codec"
)

// ViewRefreshHeader carries the JSON map of events produced by a mutation.
const ViewRefreshHeader = "X-View-Refresh"

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	events     map[string]any
	fields     map[string]any
	statusCode int
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		events:     make(map[string]any),
		fields:     make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Event adds a named event with optional data to the X-View-Refresh header.
func (b *JSONResponseBuilder) Event(name string, data any) *JSONResponseBuilder {
	if data == nil {
		data = struct{}{}
	}
	b.events[name] = data
	return b
}

// Field sets a top-level member of the response body.
func (b *JSONResponseBuilder) Field(name string, value any) *JSONResponseBuilder {
	b.fields[name] = value
	return b
}

// View attaches the refreshed view and the view:refresh event.
func (b *JSONResponseBuilder) View(v app.View) *JSONResponseBuilder {
	b.fields["view"] = v
	return b.Event("view:refresh", nil)
}

// Error sets the error member. ParseErrors also report their location.
func (b *JSONResponseBuilder) Error(err error) *JSONResponseBuilder {
	body := map[string]any{"message": err.Error()}
	var pe *codec.ParseError
	if errors.As(err, &pe) {
		body["row"] = pe.Row
		if pe.Column > 0 {
			body["column"] = pe.Column
		}
	}
	b.fields["error"] = body
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if len(b.events) > 0 {
		if eventsJSON, err := json.Marshal(b.events); err == nil {
			w.Header().Set(ViewRefreshHeader, string(eventsJSON))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	if len(b.fields) > 0 {
		_ = json.NewEncoder(w).Encode(b.fields)
	}
}

// ErrorResponse creates an error response whose status follows the error.
func ErrorResponse(err error) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusFor(err)).Error(err)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusBadRequest).Error(errors.New(message))
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods).
		Error(errors.New("method not allowed"))
}
