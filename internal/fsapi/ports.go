// Package fsapi holds the types and ports shared between the sync workflow,
// the HTTP client and the backend service.
package fsapi

import "context"

// Lister lists the entries directly under path. An empty path lists the
// configured root.
type Lister interface {
	List(ctx context.Context, path string) ([]DirectoryEntry, error)
}

// Syncer synchronizes a source directory into a destination directory.
// When the pair has never been linked and req.Force is false, the returned
// error satisfies errors.Is(err, ErrConflict).
type Syncer interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncReport, error)
}
