package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/filemanager/filemanager/internal/fileops"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/fsservice"
	"github.com/filemanager/filemanager/internal/store"
)

// StatusFor maps a service error to its HTTP status and error code.
// Unknown errors get 500 and fallbackCode.
func StatusFor(err error, fallbackCode string) (int, string) {
	switch {
	case errors.Is(err, fsservice.ErrPairNotFound):
		return http.StatusConflict, fsapi.CodeSyncPairNotFound
	case errors.Is(err, store.ErrPairNotFound):
		return http.StatusNotFound, fsapi.CodeSyncPairNotFound
	case errors.Is(err, fileops.ErrPathNotFound):
		return http.StatusNotFound, fsapi.CodePathNotFound
	case errors.Is(err, fileops.ErrPermissionDenied):
		return http.StatusForbidden, fsapi.CodeAccessDenied
	case errors.Is(err, fileops.ErrInvalidPath),
		errors.Is(err, fileops.ErrSamePath),
		errors.Is(err, fsservice.ErrNotDirectory):
		return http.StatusBadRequest, fsapi.CodeInvalidPath
	case errors.Is(err, fileops.ErrPatternInvalid):
		return http.StatusBadRequest, fsapi.CodeInvalidRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, fallbackCode
	default:
		return http.StatusInternalServerError, fallbackCode
	}
}
