package sdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/imroc/req/v3"
)

var (
	ErrNoServerURL      = errors.New("sdk: server url missing")
	ErrInvalidServerURL = errors.New("sdk: invalid server url")
	ErrInvalidConfig    = errors.New("sdk: invalid config")
)

// CodeUnknownError is used when the server did not answer with an error envelope.
const CodeUnknownError = "E_UNKNOWN_ERR"

// handleAPIError is a helper function that handles the common error pattern.
// API errors come back as *fsapi.StatusError so callers can match them with
// errors.Is(err, fsapi.ErrConflict) and friends.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("sdk: %s: %w", operation, requestErr)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*fsapi.StatusError); ok && apiErr.Code != "" {
			apiErr.Status = resp.StatusCode
			return fmt.Errorf("sdk: %s: %w", operation, apiErr)
		}

		return fmt.Errorf("sdk: %s: %w", operation, &fsapi.StatusError{
			Status:  resp.StatusCode,
			Code:    CodeUnknownError,
			Message: http.StatusText(resp.StatusCode),
		})
	}

	return nil
}
