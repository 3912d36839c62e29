package api

import (
	routes "terramosaic/internal/api/handlers"
	"terramosaic/internal/engine"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, e *engine.Engine, config map[string]string) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), config)

	// Setup scan handlers
	routes.SetupScanHandlers(api, e)
}
