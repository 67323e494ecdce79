package syncflow

import (
	"errors"
	"strings"
)

var (
	ErrInvalidState = errors.New("syncflow: operation not valid in current state")
	ErrSyncInFlight = errors.New("syncflow: sync already in progress")
	ErrInvalidRole  = errors.New("syncflow: invalid role")
	ErrEmptyPath    = errors.New("syncflow: empty path")
)

// ValidationError is returned by Sync when an endpoint is unset. No request
// is made.
type ValidationError struct {
	Missing []Role
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = r.String()
	}
	return "syncflow: missing " + strings.Join(names, ", ")
}
