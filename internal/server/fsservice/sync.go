package fsservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/filemanager/filemanager/internal/fileops"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/metrics"
	"github.com/filemanager/filemanager/internal/store"
	"github.com/spf13/afero"
)

var (
	// ErrPairNotFound is returned by an un-forced sync of a pair that was never linked.
	ErrPairNotFound = errors.New("sync pair not found")
	ErrNotDirectory = errors.New("not a directory")
)

// SyncService links source/destination pairs and runs sync jobs for them.
type SyncService struct {
	fs     afero.Fs
	root   *Root
	store  *store.Store
	copier *fileops.Copier

	// one job at a time, so two syncs never write the same destination
	mu sync.Mutex
}

var _ fsapi.Syncer = (*SyncService)(nil)

func NewSyncService(fsys afero.Fs, root *Root, st *store.Store, hashes *fileops.HashCache) *SyncService {
	return &SyncService{
		fs:     fsys,
		root:   root,
		store:  st,
		copier: fileops.NewCopier(fsys, st.FileIndex(), hashes),
	}
}

// Sync copies new and changed files from req.Source into req.Destination.
// A pair that has never been linked is created only when req.Force is set,
// otherwise ErrPairNotFound is returned and nothing is touched.
func (s *SyncService) Sync(ctx context.Context, req fsapi.SyncRequest) (*fsapi.SyncReport, error) {
	src, err := s.resolveDir(req.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := s.resolveDir(req.Destination)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	if src == dst {
		return nil, fileops.ErrSamePath
	}

	relSrc, relDst := s.root.Rel(src), s.root.Rel(dst)

	s.mu.Lock()
	defer s.mu.Unlock()

	pairCreated := false
	pair, err := s.store.GetPair(ctx, relSrc, relDst)
	switch {
	case errors.Is(err, store.ErrPairNotFound) && !req.Force:
		slog.Info("sync pair not linked", "source", relSrc, "destination", relDst)
		metrics.RecordSync(metrics.SyncConflict, 0, 0)
		return nil, ErrPairNotFound

	case errors.Is(err, store.ErrPairNotFound):
		pair, err = s.store.CreatePair(ctx, relSrc, relDst)
		if err != nil {
			return nil, err
		}
		pairCreated = true
		metrics.RecordPairCreated()
		slog.Info("sync pair created", "pair", pair.ID, "source", relSrc, "destination", relDst)

	case err != nil:
		return nil, err
	}

	job, err := s.store.CreateJob(ctx, pair.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	copied, syncErr := s.copier.SyncUniqueFiles(ctx, pair.ID, job.ID, src, dst)
	elapsed := time.Since(start)

	status := fsapi.JobCompleted
	if syncErr != nil {
		status = fsapi.JobFailed
	}

	// record the outcome even if the request was cancelled
	if finished, err := s.store.FinishJob(context.WithoutCancel(ctx), job.ID, status, len(copied), syncErr); err != nil {
		slog.Error("finish sync job", "pair", pair.ID, "job", job.ID, "error", err)
	} else {
		job = finished
	}

	if syncErr != nil {
		metrics.RecordSync(metrics.SyncFailed, len(copied), elapsed)
		slog.Error("sync job failed", "pair", pair.ID, "copied", len(copied), "error", syncErr)
		return nil, fmt.Errorf("sync %s to %s: %w", relSrc, relDst, syncErr)
	}

	metrics.RecordSync(metrics.SyncCompleted, len(copied), elapsed)
	slog.Info("sync job completed", "pair", pair.ID, "run", job.RunID, "copied", len(copied), "took", elapsed)

	if copied == nil {
		copied = []string{}
	}

	return &fsapi.SyncReport{
		Pair:        *pair,
		Job:         *job,
		Copied:      copied,
		PairCreated: pairCreated,
	}, nil
}

func (s *SyncService) Pairs(ctx context.Context) ([]fsapi.SyncPair, error) {
	return s.store.ListPairs(ctx)
}

func (s *SyncService) Jobs(ctx context.Context, pairID int64, limit int) ([]fsapi.SyncJob, error) {
	return s.store.ListJobs(ctx, pairID, limit)
}

func (s *SyncService) resolveDir(path string) (string, error) {
	full, err := s.root.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := s.fs.Stat(full)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", fileops.ErrPathNotFound
		case errors.Is(err, fs.ErrPermission):
			return "", fileops.ErrPermissionDenied
		}
		return "", err
	}
	if !info.IsDir() {
		return "", ErrNotDirectory
	}
	return full, nil
}
