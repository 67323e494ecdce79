// Package fileops lists, inspects and copies files on an afero filesystem.
package fileops

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

var (
	ErrInvalidPath      = errors.New("fileops: invalid path")
	ErrPathNotFound     = errors.New("fileops: path not found")
	ErrPermissionDenied = errors.New("fileops: permission denied")
	ErrPatternInvalid   = errors.New("fileops: invalid pattern")
)

// FileInfo is the metadata reported for a listed file or directory.
type FileInfo struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Size        int64       `json:"size"`
	IsDirectory bool        `json:"isDirectory"`
	ModTime     time.Time   `json:"modTime"`
	Mode        fs.FileMode `json:"-"`
	Permissions string      `json:"permissions"`
	MimeType    string      `json:"mimeType,omitempty"`
}

// ListOptions controls ListFiles.
//
// Depth limits recursion, 1 being the directory itself and 0 meaning no
// limit. Exclude globs apply to files and directories, Include globs and
// RegexPattern to files only. When Include or RegexPattern is set the result
// holds files only.
type ListOptions struct {
	Depth        int
	Include      []string
	Exclude      []string
	RegexPattern string
	ShowHidden   bool
	SkipMime     bool
}

func DefaultListOptions() ListOptions {
	return ListOptions{Depth: 1}
}

func (o ListOptions) filtered() bool {
	return len(o.Include) > 0 || o.RegexPattern != ""
}

type matcher struct {
	opts ListOptions
	re   *regexp.Regexp
}

func newMatcher(opts ListOptions) (*matcher, error) {
	m := &matcher{opts: opts}

	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, ErrPatternInvalid
		}
	}

	if opts.RegexPattern != "" {
		re, err := regexp.Compile(opts.RegexPattern)
		if err != nil {
			return nil, ErrPatternInvalid
		}
		m.re = re
	}

	return m, nil
}

func (m *matcher) include(name string, isDir bool) bool {
	if !m.opts.ShowHidden && strings.HasPrefix(name, ".") {
		return false
	}

	for _, pattern := range m.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}

	if isDir {
		return true
	}

	if len(m.opts.Include) > 0 {
		included := false
		for _, pattern := range m.opts.Include {
			if ok, _ := doublestar.Match(pattern, name); ok {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	if m.re != nil && !m.re.MatchString(name) {
		return false
	}

	return true
}

// ListFiles lists root on fsys according to opts. Entries come back in
// directory order, each directory's children following it.
func ListFiles(fsys afero.Fs, root string, opts ListOptions) ([]FileInfo, error) {
	if root == "" {
		return nil, ErrInvalidPath
	}
	root = filepath.Clean(root)

	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, mapFsError(err)
	}
	if !info.IsDir() {
		return nil, ErrInvalidPath
	}

	if _, err := afero.ReadDir(fsys, root); err != nil {
		return nil, mapFsError(err)
	}

	var files []FileInfo

	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if opts.Depth > 0 && depth > opts.Depth {
			return
		}

		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			slog.Debug("fileops skip unreadable dir", "path", dir, "error", err)
			return
		}

		for _, entry := range entries {
			name := entry.Name()
			if !m.include(name, entry.IsDir()) {
				continue
			}

			fullPath := filepath.Join(dir, name)
			if !entry.IsDir() || !opts.filtered() {
				files = append(files, newFileInfo(fsys, fullPath, entry, opts.SkipMime))
			}

			if entry.IsDir() {
				walk(fullPath, depth+1)
			}
		}
	}

	walk(root, 1)
	return files, nil
}

func newFileInfo(fsys afero.Fs, path string, info os.FileInfo, skipMime bool) FileInfo {
	fi := FileInfo{
		Name:        info.Name(),
		Path:        path,
		Size:        info.Size(),
		IsDirectory: info.IsDir(),
		ModTime:     info.ModTime(),
		Mode:        info.Mode(),
		Permissions: info.Mode().String(),
	}

	if !info.IsDir() && !skipMime {
		if mimeType, err := DetectMimeType(fsys, path); err == nil {
			fi.MimeType = mimeType
		}
	}

	return fi
}

func mapFsError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrPathNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return err
	}
}
