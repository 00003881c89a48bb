package domain

import (
	"errors"
	"fmt"
)

// ErrRetrievalUnavailable marks vector backend failures. Callers absorb it
// by degrading to an empty context set instead of failing the request.
var ErrRetrievalUnavailable = errors.New("retrieval unavailable")

// ErrInvalidChunking is returned when chunker construction parameters can
// never terminate the token walk (overlap >= size).
var ErrInvalidChunking = errors.New("chunk overlap must be smaller than chunk size")

// ConfigurationMismatchError reports a fatal setup conflict, such as an
// existing vector collection created with a different dimension than the
// embedding model produces. It aborts startup rather than being swallowed.
type ConfigurationMismatchError struct {
	Resource string
	Want     int
	Got      int
}

func (e *ConfigurationMismatchError) Error() string {
	return fmt.Sprintf("configuration mismatch on %s: want dimension %d, got %d", e.Resource, e.Want, e.Got)
}
