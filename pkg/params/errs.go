package params

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseError reports a persisted document that is not well-formed JSON or
// carries a field of the wrong type (e.g. a string where a number is
// expected). Numbers outside their documented ranges are not parse errors;
// the store is deliberately permissive about semantics.
type ParseError struct {
	// Field is the JSON key whose value had the wrong type, when known.
	// Empty for plain syntax errors.
	Field string
	// Err is the underlying decode error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("params: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("params: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(err error) *ParseError {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &ParseError{Field: te.Field, Err: err}
	}
	return &ParseError{Err: err}
}
