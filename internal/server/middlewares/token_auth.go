package middlewares

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/handlers/api"
	"github.com/gin-gonic/gin"
)

var errUnauthorized = errors.New("unauthorized")

// TokenAuth checks the bearer token (or ?token=) against token. An empty
// token disables auth.
func TokenAuth(token string) gin.HandlerFunc {
	if token == "" {
		slog.Warn("api auth disabled")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	expected := []byte(token)
	return func(c *gin.Context) {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got == "" {
			got = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			slog.Debug("invalid auth token", "ip", c.ClientIP(), "path", c.FullPath())
			api.AbortWithError(c, http.StatusUnauthorized, fsapi.CodeAccessDenied, errUnauthorized)
			return
		}

		c.Set("authenticated", true)
		c.Next()
	}
}
