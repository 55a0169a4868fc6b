package gallery

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTheme is returned when an id is not in the loaded listing.
	ErrUnknownTheme = errors.New("theme not found")
	// ErrStale is returned when a newer request for the same action superseded
	// this one; its result was discarded.
	ErrStale = errors.New("superseded by a newer request")
)

// TransportError reports an unreachable resource or a non-success status.
type TransportError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch failed: status %d", e.Resource, e.StatusCode)
	}
	return fmt.Sprintf("%s fetch failed: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not usable JSON.
type ParseError struct {
	Resource string
	URL      string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response is malformed: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports well-formed JSON that lacks a required field.
type SchemaError struct {
	Resource string
	URL      string
	Field    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bad %s payload: missing %s", e.Resource, e.Field)
}
