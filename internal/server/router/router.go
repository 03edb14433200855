package router

import (
	"net/http"

	"github.com/UkemeSkywalker/Quanta/internal/server/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quanta-api",
		})
	})

	researchHandler := handler.NewResearchHandler(deps)

	api := r.Group("/api")
	{
		api.GET("/info", researchHandler.GetInfo)
		api.POST("/research/submit", researchHandler.SubmitResearch)
		api.GET("/workflow/:workflow_id/status", researchHandler.GetWorkflowStatus)
		api.GET("/websocket/status", researchHandler.GetWebSocketStatus)
	}

	// Realtime updates
	r.GET("/ws/:client_id", researchHandler.HandleWebSocket)

	return r
}
