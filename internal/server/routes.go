package server

import (
	"errors"
	"net/http"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/handlers/api"
	"github.com/filemanager/filemanager/internal/server/handlers/explorer"
	"github.com/filemanager/filemanager/internal/server/handlers/pairs"
	"github.com/filemanager/filemanager/internal/server/metrics"
	"github.com/filemanager/filemanager/internal/server/middlewares"
	"github.com/filemanager/filemanager/internal/version"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *Config, svc *Services) (http.Handler, error) {
	limiter, err := middlewares.RateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	explorerH := explorer.New(svc.List)
	pairsH := pairs.New(svc.Sync)

	r.Use(middlewares.Logger())
	r.Use(gin.Recovery())
	r.Use(middlewares.Metrics())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Secure(cfg.HTTP.TLS()))

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/browse/*filepath", middlewares.TokenAuth(cfg.AuthToken), explorerH.Browse)

	v1 := r.Group("/api/v1")
	v1.Use(middlewares.TokenAuth(cfg.AuthToken))
	v1.Use(limiter)
	{
		v1.GET("/list", explorerH.List)
		v1.POST("/sync", pairsH.Sync)
		v1.GET("/pairs", pairsH.List)
		v1.GET("/pairs/:id/jobs", pairsH.Jobs)
	}

	r.NoRoute(func(c *gin.Context) {
		api.AbortWithError(c, http.StatusNotFound, fsapi.CodeInvalidRequest, errors.New("not found"))
	})

	r.NoMethod(func(c *gin.Context) {
		api.AbortWithError(c, http.StatusMethodNotAllowed, fsapi.CodeInvalidRequest, errors.New("method not allowed"))
	})

	return r.Handler(), nil
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.DetailedWithApp())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
