package pairs

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/fsservice"
	"github.com/filemanager/filemanager/internal/server/handlers/api"
	"github.com/gin-gonic/gin"
)

type PairsHandler struct {
	svc *fsservice.SyncService
}

func New(svc *fsservice.SyncService) *PairsHandler {
	return &PairsHandler{svc: svc}
}

// Sync runs a sync job. An unknown pair without "force" answers 409 with
// E_SYNC_PAIR_NOT_FOUND so the client can ask before creating it.
func (h *PairsHandler) Sync(c *gin.Context) {
	var req fsapi.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(c, http.StatusBadRequest, fsapi.CodeInvalidRequest, err)
		return
	}

	report, err := h.svc.Sync(c.Request.Context(), req)
	if err != nil {
		api.AbortWithServiceError(c, err, fsapi.CodeSyncFailed)
		return
	}

	c.PureJSON(http.StatusOK, report)
}

func (h *PairsHandler) List(c *gin.Context) {
	pairs, err := h.svc.Pairs(c.Request.Context())
	if err != nil {
		api.AbortWithServiceError(c, err, fsapi.CodeInternalError)
		return
	}

	c.PureJSON(http.StatusOK, &PairsResponse{Pairs: pairs})
}

func (h *PairsHandler) Jobs(c *gin.Context) {
	pairID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || pairID <= 0 {
		api.AbortWithError(c, http.StatusBadRequest, fsapi.CodeInvalidRequest, fmt.Errorf("invalid pair id %q", c.Param("id")))
		return
	}

	var req JobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		api.AbortWithError(c, http.StatusBadRequest, fsapi.CodeInvalidRequest, err)
		return
	}

	jobs, err := h.svc.Jobs(c.Request.Context(), pairID, req.Limit)
	if err != nil {
		api.AbortWithServiceError(c, err, fsapi.CodeInternalError)
		return
	}

	c.PureJSON(http.StatusOK, &JobsResponse{Jobs: jobs})
}
