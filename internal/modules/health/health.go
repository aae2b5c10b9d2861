package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/mx-space/mailcast/internal/pkg/redis"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// RegisterRoutes mounts GET /health. rc may be nil when Redis is disabled.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		dbState := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbState = "down"
		}

		redisState := "disabled"
		if rc != nil {
			redisState = "up"
			if rc.Ping(ctx) != nil {
				redisState = "down"
			}
		}

		status := "ok"
		code := http.StatusOK
		if dbState != "up" {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"db":     dbState,
			"redis":  redisState,
		})
	})
}
