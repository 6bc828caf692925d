package errors

import (
	"fmt"
)

var (
	ErrInvalidConfig = fmt.Errorf("recallhub: invalid config")
	ErrNotFound      = fmt.Errorf("recallhub: not found")
	ErrValidation    = fmt.Errorf("recallhub: validation failed")
	ErrUpstreamModel = fmt.Errorf("recallhub: upstream model error")
	ErrStore         = fmt.Errorf("recallhub: store error")
	ErrNoGenerator   = fmt.Errorf("recallhub: no text generator configured")
)

type markedError struct {
	kind  error
	cause error
}

func (e *markedError) Error() string { return e.cause.Error() }

func (e *markedError) Unwrap() error { return e.cause }

func (e *markedError) Is(target error) bool { return target == e.kind }

// Mark wraps err with a message and tags it with kind, so that Is matches
// both the sentinel and the original cause.
func Mark(kind error, err error, format string, args ...any) error {
	if err == nil {
		return Wrapf(kind, format, args...)
	}

	return &markedError{
		kind:  kind,
		cause: Wrapf(err, format, args...),
	}
}
