package fsapi

import "time"

// DirectoryEntry is one filesystem object as reported by a listing.
type DirectoryEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"isDirectory"`
	Size        int64     `json:"size"`
	ModifiedAt  time.Time `json:"modifiedAt"`
	MimeType    string    `json:"mimeType,omitempty"`
}

// SyncRequest asks the backend to synchronize Source into Destination.
// Force creates the source/destination pair if it has never been linked.
type SyncRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Force       bool   `json:"force"`
}

// SyncPair is a linked source/destination pair.
type SyncPair struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"createdAt"`
}

type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// SyncJob is a single run of a sync pair.
type SyncJob struct {
	ID          int64      `json:"id"`
	PairID      int64      `json:"pairId"`
	RunID       string     `json:"runId"`
	Status      JobStatus  `json:"status"`
	FilesCopied int        `json:"filesCopied"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SyncReport is the backend's answer to a successful sync.
type SyncReport struct {
	Pair        SyncPair `json:"pair"`
	Job         SyncJob  `json:"job"`
	Copied      []string `json:"copied"`
	PairCreated bool     `json:"pairCreated"`
}
