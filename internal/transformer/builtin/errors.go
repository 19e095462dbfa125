package builtin

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when a transform needs a column the table
// does not have.
var ErrMissingColumn = errors.New("column not found")

// ParseError reports a cell that does not match the expected date layout.
// Row is the 1-based data row (the header is not counted).
type ParseError struct {
	Column string
	Row    int
	Value  string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot parse %q as %s: %v", e.Column, e.Row, e.Value, e.Layout, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
