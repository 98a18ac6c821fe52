package model

import (
	"errors"
	"fmt"
)

// Terminal error kinds. Wrap them with fmt.Errorf("...: %w", ErrX) and
// test with errors.Is.
var (
	ErrFormat = errors.New("format error")
	ErrSchema = errors.New("schema error")
	ErrIO     = errors.New("io error")
)

// Kind names the terminal kind of err, or "" when err is nil or unclassified.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFormat):
		return "FormatError"
	case errors.Is(err, ErrSchema):
		return "SchemaError"
	case errors.Is(err, ErrIO):
		return "IOError"
	}
	return ""
}

// RowError describes a single row dropped during normalization.
type RowError struct {
	Row   int // 1-based source row
	Field string
	Value string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }
