package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filemanager/filemanager/internal/fileops"
	"github.com/filemanager/filemanager/internal/server/fsservice"
	"github.com/filemanager/filemanager/internal/store"
	"github.com/spf13/afero"
)

type Services struct {
	Store *store.Store
	List  *fsservice.ListService
	Sync  *fsservice.SyncService
}

func NewServices(config *Config, fsys afero.Fs) (*Services, error) {
	st, err := store.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	root := fsservice.NewRoot(fsys, config.RootDir)
	hashes := fileops.NewHashCache(fileops.DefaultHashCacheSize, fileops.DefaultHashCacheTTL)

	return &Services{
		Store: st,
		List:  fsservice.NewListService(fsys, root),
		Sync:  fsservice.NewSyncService(fsys, root, st, hashes),
	}, nil
}

func (s *Services) Start(ctx context.Context) error {
	if err := s.Store.Ping(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}

	pairs, err := s.Sync.Pairs(ctx)
	if err != nil {
		return fmt.Errorf("load pairs: %w", err)
	}
	slog.Info("sync pairs loaded", "count", len(pairs))
	return nil
}

func (s *Services) Shutdown(_ context.Context) error {
	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
