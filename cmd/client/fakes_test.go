package main

import (
	"context"
	"net/http"
	"time"

	"github.com/filemanager/filemanager/internal/fsapi"
)

type fakeServer struct {
	tree    map[string][]fsapi.DirectoryEntry
	linked  map[[2]string]bool
	calls   []fsapi.SyncRequest
	syncErr error
}

func newFakeServer() *fakeServer {
	mod := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &fakeServer{
		tree: map[string][]fsapi.DirectoryEntry{
			"": {
				{Name: "data", Path: "data", IsDirectory: true, ModifiedAt: mod},
				{Name: "backup", Path: "backup", IsDirectory: true, ModifiedAt: mod},
				{Name: "notes.txt", Path: "notes.txt", Size: 2048, ModifiedAt: mod, MimeType: "text/plain"},
			},
			"data": {
				{Name: "photos", Path: "data/photos", IsDirectory: true, ModifiedAt: mod},
			},
			"data/photos": {},
			"backup":      {},
		},
		linked: map[[2]string]bool{},
	}
}

func (f *fakeServer) List(_ context.Context, path string) ([]fsapi.DirectoryEntry, error) {
	entries, ok := f.tree[path]
	if !ok {
		return nil, &fsapi.StatusError{Status: http.StatusNotFound, Code: fsapi.CodePathNotFound, Message: "path not found"}
	}
	return entries, nil
}

func (f *fakeServer) Sync(_ context.Context, req fsapi.SyncRequest) (*fsapi.SyncReport, error) {
	f.calls = append(f.calls, req)
	if f.syncErr != nil {
		return nil, f.syncErr
	}

	key := [2]string{req.Source, req.Destination}
	created := false
	if !f.linked[key] {
		if !req.Force {
			return nil, &fsapi.StatusError{Status: http.StatusConflict, Code: fsapi.CodeSyncPairNotFound, Message: "sync pair not found"}
		}
		f.linked[key] = true
		created = true
	}

	return &fsapi.SyncReport{
		Pair:        fsapi.SyncPair{ID: 1, Source: req.Source, Destination: req.Destination},
		Job:         fsapi.SyncJob{ID: int64(len(f.calls)), Status: fsapi.JobCompleted},
		Copied:      []string{"a.jpg"},
		PairCreated: created,
	}, nil
}
