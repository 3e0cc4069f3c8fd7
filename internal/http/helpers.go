package http

import (
	"errors"
	"net/http"
	"strings"

	"attendance/internal/app"
	"attendance/internal/codec"
	"attendance/internal/core"
	"attendance/internal/settings"
	"attendance/internal/sheets"
)

// errBadRequest marks request bodies that could not be parsed.
var errBadRequest = errors.New("bad request")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errBadRequest),
		errors.Is(err, app.ErrInvalidPath),
		errors.Is(err, app.ErrConfirmationRequired),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, settings.ErrInvalidTheme),
		errors.Is(err, settings.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUnknownPerson),
		errors.Is(err, sheets.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateName),
		errors.Is(err, core.ErrNothingToRemove):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
