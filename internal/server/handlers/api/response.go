package api

import (
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/gin-gonic/gin"
)

// AbortWithError writes the {"code", "error"} envelope and stops the chain.
func AbortWithError(ctx *gin.Context, status int, code string, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, fsapi.StatusError{
		Code:    code,
		Message: err.Error(),
	})
}

// AbortWithServiceError is AbortWithError with the status and code picked by StatusFor.
func AbortWithServiceError(ctx *gin.Context, err error, fallbackCode string) {
	status, code := StatusFor(err, fallbackCode)
	AbortWithError(ctx, status, code, err)
}
