package fileops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spf13/afero"
)

const (
	DefaultHashCacheSize = 4096
	DefaultHashCacheTTL  = 30 * time.Minute
)

// HashCache memoizes file hashes keyed by path, size and mtime, so a file
// that changes on disk is always re-hashed.
type HashCache struct {
	entries *expirable.LRU[string, string]
}

func NewHashCache(size int, ttl time.Duration) *HashCache {
	return &HashCache{
		entries: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// Hash returns the hex SHA-256 of the file at path.
func (h *HashCache) Hash(fsys afero.Fs, path string, info os.FileInfo) (string, error) {
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if sum, ok := h.entries.Get(key); ok {
		return sum, nil
	}

	sum, err := fileHash(fsys, path)
	if err != nil {
		return "", err
	}

	h.entries.Add(key, sum)
	return sum, nil
}

func (h *HashCache) Len() int {
	return h.entries.Len()
}

func fileHash(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
