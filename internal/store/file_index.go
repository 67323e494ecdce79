package store

import (
	"context"
	"fmt"
)

// FileIndex exposes the files table to fileops.Copier.
type FileIndex struct {
	s *Store
}

func (s *Store) FileIndex() *FileIndex {
	return &FileIndex{s: s}
}

func (i *FileIndex) LastHash(ctx context.Context, pairID int64, relPath string) (string, error) {
	f, err := i.s.GetFileByPath(ctx, pairID, relPath)
	if err != nil || f == nil {
		return "", err
	}
	return f.Hash, nil
}

// Record upserts the file and links it to the job in one transaction.
func (i *FileIndex) Record(ctx context.Context, pairID, jobID int64, relPath, hash string, size int64) error {
	tx, err := i.s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record file: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	fileID, err := upsertFile(ctx, tx, pairID, relPath, hash, size)
	if err != nil {
		return err
	}
	if err := addSyncedFile(ctx, tx, jobID, fileID, hash); err != nil {
		return err
	}
	return tx.Commit()
}
