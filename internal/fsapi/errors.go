package fsapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConflict reports that the requested pair does not exist yet and
	// creating it needs confirmation.
	ErrConflict = errors.New("sync pair not linked")

	ErrNotFound         = errors.New("path not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Error codes carried in the API error envelope.
const (
	CodeInvalidRequest   = "E_INVALID_REQUEST"
	CodeRateLimited      = "E_RATE_LIMITED"
	CodeInternalError    = "E_INTERNAL_ERROR"
	CodeAccessDenied     = "E_ACCESS_DENIED"
	CodePathNotFound     = "E_PATH_NOT_FOUND"
	CodeInvalidPath      = "E_INVALID_PATH"
	CodeSyncPairNotFound = "E_SYNC_PAIR_NOT_FOUND"
	CodeSyncFailed       = "E_SYNC_FAILED"
)

// StatusError is a failed backend call with the HTTP status it came back with.
type StatusError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s - %s", e.Status, e.Code, e.Message)
}

// Is lets a 409 match ErrConflict and a 404/403 match their sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrPermissionDenied:
		return e.Status == http.StatusForbidden
	}
	return false
}

// IsConflict reports whether err is a sync pair conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
