package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/pkg/response"
)

// Health reports liveness plus database reachability for readiness probes.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(requestContext(c))
			}
			if err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		if code != http.StatusOK {
			c.JSON(code, gin.H{"success": false, "status": status})
			return
		}
		response.Success(c, code, gin.H{"status": status})
	}
}
