package pairs

import "github.com/filemanager/filemanager/internal/fsapi"

type JobsRequest struct {
	Limit int `form:"limit" binding:"min=0,max=500"`
}

type PairsResponse struct {
	Pairs []fsapi.SyncPair `json:"pairs"`
}

type JobsResponse struct {
	Jobs []fsapi.SyncJob `json:"jobs"`
}
