package codec

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is wrapped by every ParseError.
var ErrMalformedDocument = errors.New("malformed attendance document")

// ParseError locates a decoding failure. Column is 0 when the whole row is
// at fault.
type ParseError struct {
	Row    int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d, column %d: %s", e.Row, e.Column, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedDocument }

func parseErr(row, col int, format string, args ...any) error {
	return &ParseError{Row: row, Column: col, Reason: fmt.Sprintf(format, args...)}
}
