package fileops

import (
	"bufio"
	"log/slog"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

const IgnoreFileName = ".syncignore"

var defaultIgnoreLines = []string{
	IgnoreFileName,
	".filemanager/",
	// python
	".ipynb_checkpoints/",
	"__pycache__/",
	"*.py[cod]",
	".venv/",
	// IDE/Editor-specific
	".vscode",
	".idea",
	// General excludes
	".git",
	"*.tmp",
	"*.swp",
	// OS-specific
	".DS_Store",
	"Thumbs.db",
}

// IgnoreList decides which paths under a sync source are never copied.
type IgnoreList struct {
	baseDir string
	ignore  *gitignore.GitIgnore
}

func NewIgnoreList(baseDir string) *IgnoreList {
	return &IgnoreList{
		baseDir: baseDir,
		ignore:  gitignore.CompileIgnoreLines(defaultIgnoreLines...),
	}
}

// Load adds the rules from the .syncignore file in the base dir, if present.
func (s *IgnoreList) Load(fsys afero.Fs) {
	ignorePath := filepath.Join(s.baseDir, IgnoreFileName)
	ignoreLines := append([]string{}, defaultIgnoreLines...)

	file, err := fsys.Open(ignorePath)
	if err != nil {
		s.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
		return
	}
	defer file.Close()

	rules := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			ignoreLines = append(ignoreLines, line)
			rules++
		}
	}

	if err := scanner.Err(); err != nil {
		slog.Warn("error reading syncignore file", "path", ignorePath, "error", err)
	} else {
		slog.Debug("loaded syncignore file", "path", ignorePath, "rules", rules)
	}

	s.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
}

// ShouldIgnore takes a path relative to the base dir.
func (s *IgnoreList) ShouldIgnore(relPath string) bool {
	return s.ignore.MatchesPath(filepath.ToSlash(relPath))
}
