package client

import (
	"errors"
	"fmt"
)

// Classification of request failures, per workflow policy:
//
//   - ErrUnavailable covers 404/500/503 and no-response. These mark a
//     backend-pending feature and are surfaced as a muted warning, never
//     as a blocking error, and never change local state destructively.
//   - ErrUnauthorized covers 401. The session invalidation hook has
//     already fired by the time a caller sees it; it must not be shown
//     as a toast.
//   - APIError covers every other non-2xx status and carries the
//     backend's message for user display.
var (
	ErrUnavailable  = errors.New("endpoint unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a business rejection from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend rejected request (%d)", e.StatusCode)
}

// IsUnavailable reports whether err is the soft endpoint-missing case.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnauthorized reports whether err is the silent 401 case.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
