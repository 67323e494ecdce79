package sdk

import (
	"fmt"
	"runtime"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/version"
)

const (
	HeaderUserAgent = "User-Agent"
	HeaderVersion   = "X-FileManager-Version"
	HeaderDeviceID  = "X-FileManager-Device-Id"
)

const (
	v1List  = "/api/v1/list"
	v1Sync  = "/api/v1/sync"
	v1Pairs = "/api/v1/pairs"
	v1Jobs  = "/api/v1/pairs/{id}/jobs"
	healthz = "/healthz"
)

var UserAgent = fmt.Sprintf("FileManager/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

type ListResponse struct {
	Path    string                 `json:"path"`
	Entries []fsapi.DirectoryEntry `json:"entries"`
}

type PairsResponse struct {
	Pairs []fsapi.SyncPair `json:"pairs"`
}

type JobsResponse struct {
	Jobs []fsapi.SyncJob `json:"jobs"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
