package fsservice

import (
	"context"

	"github.com/filemanager/filemanager/internal/fileops"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/metrics"
	"github.com/spf13/afero"
)

// ListService lists directories under the root.
type ListService struct {
	fs   afero.Fs
	root *Root
}

var _ fsapi.Lister = (*ListService)(nil)

func NewListService(fsys afero.Fs, root *Root) *ListService {
	return &ListService{fs: fsys, root: root}
}

// List returns the direct children of path, hidden entries excluded.
func (s *ListService) List(ctx context.Context, path string) ([]fsapi.DirectoryEntry, error) {
	return s.ListWithOptions(ctx, path, fileops.DefaultListOptions())
}

// ListWithOptions lists path with caller supplied filters. Entry paths are
// relative to the root.
func (s *ListService) ListWithOptions(ctx context.Context, path string, opts fileops.ListOptions) ([]fsapi.DirectoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := s.root.Resolve(path)
	if err != nil {
		metrics.RecordListing(false)
		return nil, err
	}

	files, err := fileops.ListFiles(s.fs, full, opts)
	if err != nil {
		metrics.RecordListing(false)
		return nil, err
	}

	entries := make([]fsapi.DirectoryEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, fsapi.DirectoryEntry{
			Name:        f.Name,
			Path:        s.root.Rel(f.Path),
			IsDirectory: f.IsDirectory,
			Size:        f.Size,
			ModifiedAt:  f.ModTime,
			MimeType:    f.MimeType,
		})
	}

	metrics.RecordListing(true)
	return entries, nil
}
