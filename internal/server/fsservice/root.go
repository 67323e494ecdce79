// Package fsservice implements directory listing and sync on the server's
// data root.
package fsservice

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/filemanager/filemanager/internal/fileops"
	"github.com/spf13/afero"
)

// Root confines client supplied paths to a directory. Client paths are
// slash separated and relative to the root; a leading slash is ignored.
// On the OS filesystem symlinks are followed before the containment check.
type Root struct {
	dir       string
	realDir   string
	evalLinks bool
}

func NewRoot(fsys afero.Fs, dir string) *Root {
	r := &Root{dir: filepath.Clean(dir)}
	r.realDir = r.dir

	if _, ok := fsys.(*afero.OsFs); ok {
		r.evalLinks = true
		if real, err := realPath(r.dir); err == nil {
			r.realDir = real
		}
	}
	return r
}

func (r *Root) Dir() string {
	return r.dir
}

// Resolve maps a client path to an absolute path under the root.
func (r *Root) Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if strings.ContainsRune(path, 0) {
		return "", fileops.ErrInvalidPath
	}

	full := filepath.Join(r.dir, filepath.FromSlash(path))
	if !fileops.IsWithin(r.dir, full) {
		return "", fileops.ErrInvalidPath
	}

	if r.evalLinks {
		real, err := realPath(full)
		if err != nil || !fileops.IsWithin(r.realDir, real) {
			return "", fileops.ErrInvalidPath
		}
	}
	return full, nil
}

// Rel maps an absolute path under the root back to a client path.
// The root itself is "".
func (r *Root) Rel(full string) string {
	rel, err := filepath.Rel(r.dir, full)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// realPath evaluates symlinks in the longest existing prefix of p and
// appends the missing remainder unchanged.
func realPath(p string) (string, error) {
	var rest []string
	cur := p
	for {
		real, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{real}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}
