package metadata

import "fmt"

// InvalidConfigError indicates that a metadata map configuration could not
// be compiled into typed metadata. It covers every construction-time
// failure: malformed configuration shapes, unknown metadata classes,
// factory resolution failures, and missing configuration elements.
//
// Callers can detect it with errors.As:
//
//	var cfgErr *metadata.InvalidConfigError
//	if errors.As(err, &cfgErr) {
//		log.Fatalf("bad metadata configuration: %v", cfgErr)
//	}
type InvalidConfigError struct {
	Reason string
}

// Error returns the failure description.
func (e *InvalidConfigError) Error() string {
	return e.Reason
}

// invalidConfigf builds an InvalidConfigError from a format string.
// All construction-time failures go through this helper so message
// formats stay in one place.
func invalidConfigf(format string, args ...interface{}) *InvalidConfigError {
	return &InvalidConfigError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates that a metadata map has no entry for the
// requested class.
type NotFoundError struct {
	Class string
}

// Error returns the failure description.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to retrieve metadata for %q", e.Class)
}
