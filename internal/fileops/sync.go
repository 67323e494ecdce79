package fileops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrSamePath = errors.New("fileops: source and destination are the same")

// Index remembers what was copied for a pair so unchanged files are skipped.
type Index interface {
	// LastHash returns the hash recorded for relPath, or "" if none.
	LastHash(ctx context.Context, pairID int64, relPath string) (string, error)
	// Record stores the new hash and links the file to the job.
	Record(ctx context.Context, pairID, jobID int64, relPath, hash string, size int64) error
}

// Copier copies the new and changed files of a source tree into a destination.
type Copier struct {
	fs     afero.Fs
	index  Index
	hashes *HashCache
}

func NewCopier(fsys afero.Fs, index Index, hashes *HashCache) *Copier {
	if hashes == nil {
		hashes = NewHashCache(DefaultHashCacheSize, DefaultHashCacheTTL)
	}
	return &Copier{fs: fsys, index: index, hashes: hashes}
}

// SyncUniqueFiles copies every file under srcDir whose content differs from
// what was last recorded for the pair, or whose copy is missing from dstDir.
// It returns the copied paths relative to srcDir, slash separated. On error
// the files copied so far are still returned.
func (c *Copier) SyncUniqueFiles(ctx context.Context, pairID, jobID int64, srcDir, dstDir string) ([]string, error) {
	srcDir = filepath.Clean(srcDir)
	dstDir = filepath.Clean(dstDir)

	if srcDir == dstDir {
		return nil, ErrSamePath
	}

	ignore := NewIgnoreList(srcDir)
	ignore.Load(c.fs)

	var copied []string
	err := afero.Walk(c.fs, srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return mapFsError(err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path == srcDir {
			return nil
		}

		// destination nested inside the source
		if path == dstDir {
			return filepath.SkipDir
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		if ignore.ShouldIgnore(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		changed, hash, err := c.needsCopy(ctx, pairID, relPath, path, filepath.Join(dstDir, relPath), info)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		if err := CopyFile(c.fs, path, filepath.Join(dstDir, relPath)); err != nil {
			return fmt.Errorf("copy %s: %w", relPath, err)
		}

		if err := c.index.Record(ctx, pairID, jobID, filepath.ToSlash(relPath), hash, info.Size()); err != nil {
			return fmt.Errorf("record %s: %w", relPath, err)
		}

		slog.Debug("file synced", "pair", pairID, "job", jobID, "path", relPath)
		copied = append(copied, filepath.ToSlash(relPath))
		return nil
	})

	return copied, err
}

func (c *Copier) needsCopy(ctx context.Context, pairID int64, relPath, srcPath, dstPath string, info os.FileInfo) (bool, string, error) {
	hash, err := c.hashes.Hash(c.fs, srcPath, info)
	if err != nil {
		return false, "", fmt.Errorf("hash %s: %w", relPath, err)
	}

	last, err := c.index.LastHash(ctx, pairID, filepath.ToSlash(relPath))
	if err != nil {
		return false, "", err
	}

	if last != hash {
		return true, hash, nil
	}

	if exists, _ := afero.Exists(c.fs, dstPath); !exists {
		return true, hash, nil
	}

	return false, hash, nil
}

// IsWithin reports whether path is base or lies below it.
func IsWithin(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
