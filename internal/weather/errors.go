package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the geocoder returned zero matches. The resolver
	// surfaces it unmasked; the fetcher treats it as an upstream failure
	// and advances to the next tier.
	ErrNotFound = errors.New("location not found")

	// ErrNotConfigured means a required credential is absent. Inside the
	// failover chain it just removes the tier; for endpoints with no
	// fallback (pure geocoding) it surfaces as a 5xx-equivalent.
	ErrNotConfigured = errors.New("source not configured")

	// ErrUpstream covers network failures, non-2xx responses and
	// malformed payloads at a tier. Recovered locally, logged, never
	// surfaced to callers of Fetch.
	ErrUpstream = errors.New("upstream unavailable")
)

// ValidationError reports malformed input. Surfaced immediately, never
// retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
