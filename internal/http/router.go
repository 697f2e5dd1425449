package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hos-service/internal/db"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, database *gorm.DB, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.HealthCheck(ctx, database); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/logs", handler.createLog)
		protected.POST("/logs/events", handler.ingestEvents)
		protected.GET("/logs", handler.listLogs)
		protected.GET("/logs/:id", handler.getLog)
		protected.POST("/logs/:id/submit", handler.submitLog)
		protected.POST("/logs/:id/approve", handler.approveLog)
		protected.POST("/logs/:id/reject", handler.rejectLog)
		protected.POST("/logs/:id/reopen", handler.reopenLog)
		protected.POST("/logs/:id/certify", handler.certifyLog)

		protected.POST("/violations/:id/resolve", handler.resolveViolation)

		protected.POST("/eld/sync", handler.syncFromProvider)

		protected.GET("/reports/compliance", handler.complianceReport)
	}

	return router
}
