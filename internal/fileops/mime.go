package fileops

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// types missing from most system mime databases
var customMimeTypes = map[string]string{
	".md":    "text/markdown",
	".go":    "text/x-go",
	".py":    "text/x-python",
	".js":    "application/javascript",
	".ts":    "application/typescript",
	".tsx":   "text/tsx",
	".jsx":   "text/jsx",
	".json":  "application/json",
	".yaml":  "application/x-yaml",
	".yml":   "application/x-yaml",
	".toml":  "application/toml",
	".ini":   "text/plain",
	".conf":  "text/plain",
	".sh":    "text/x-shellscript",
	".bash":  "text/x-shellscript",
	".sql":   "text/x-sql",
	".c":     "text/x-c",
	".h":     "text/x-c",
	".cpp":   "text/x-c++",
	".rs":    "text/x-rust",
	".rb":    "text/x-ruby",
	".java":  "text/x-java",
	".kt":    "text/x-kotlin",
	".swift": "text/x-swift",
	".lua":   "text/x-lua",
}

// DetectMimeType returns the MIME type of a file from its extension, falling
// back to sniffing its content.
func DetectMimeType(fsys afero.Fs, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if mimeType, ok := customMimeTypes[ext]; ok {
		return mimeType, nil
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType, nil
	}

	file, err := fsys.Open(path)
	if err != nil {
		return "", mapFsError(err)
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	return detected.String(), nil
}
