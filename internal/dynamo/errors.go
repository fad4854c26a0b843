package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for world construction and mutation.
var (
	// ErrConfiguration indicates a body, shape, constraint or generator was
	// built from invalid parameters.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrWorldLocked indicates a mutation was attempted while Step was running.
	ErrWorldLocked = errors.New("dynamo: world is locked during step")

	// ErrUnknownBody indicates a body that does not belong to this world.
	ErrUnknownBody = errors.New("dynamo: body does not belong to this world")

	// ErrStaticSegmentOnly indicates a segment was attached to a dynamic body.
	ErrStaticSegmentOnly = errors.New("dynamo: segments attach only to static bodies")

	// ErrDegenerateGeometry indicates zero-length or zero-area geometry.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry")
)

// ConfigurationError names the offending field of a rejected construction
// request. It matches ErrConfiguration and, when set, the wrapped cause.
type ConfigurationError struct {
	Field   string
	Reason  string
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Wrapped != nil {
		return []error{ErrConfiguration, e.Wrapped}
	}
	return []error{ErrConfiguration}
}

func configError(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func configErrorWrap(field string, cause error, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...), Wrapped: cause}
}
