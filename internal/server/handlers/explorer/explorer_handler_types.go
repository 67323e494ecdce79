package explorer

import "github.com/filemanager/filemanager/internal/fsapi"

type ListRequest struct {
	Path    string   `form:"path"`
	Depth   int      `form:"depth" binding:"min=0"`
	Include []string `form:"include"`
	Exclude []string `form:"exclude"`
	Regex   string   `form:"regex"`
	Hidden  bool     `form:"hidden"`
}

type ListResponse struct {
	Path    string                 `json:"path"`
	Entries []fsapi.DirectoryEntry `json:"entries"`
}

// indexData feeds the "Index of" page
type indexData struct {
	Path    string
	Parent  string
	HasUp   bool
	Entries []fsapi.DirectoryEntry
}
