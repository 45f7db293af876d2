package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haidt/agent-engine/internal/api/handler"
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
		if deps.DBClient != nil {
			if err := deps.DBClient.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "engine-service",
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "engine-service",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	pipelineHandler := handler.NewPipelineHandler(deps)
	agentHandler := handler.NewAgentHandler(deps)
	statusHandler := handler.NewStatusHandler(deps)
	wsHandler := handler.NewWSHandler(deps)

	// Real-time updates
	r.GET("/ws", wsHandler.HandleWS)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// POST /api/v1/commands - Submit an operation for background execution
		v1.POST("/commands", jobHandler.SubmitCommand)

		jobs := v1.Group("/jobs")
		{
			// GET /api/v1/jobs/:job_id - Get job snapshot
			jobs.GET("/:job_id", jobHandler.GetJob)

			// GET /api/v1/jobs/:job_id/logs - Stream log lines over SSE
			jobs.GET("/:job_id/logs", jobHandler.StreamLogs)
		}

		// POST /api/v1/pipeline/run - Run the pipeline synchronously
		v1.POST("/pipeline/run", pipelineHandler.RunPipeline)

		// GET /api/v1/records/:record_id - Get a persisted pipeline record
		v1.GET("/records/:record_id", pipelineHandler.GetRecord)

		agents := v1.Group("/agents")
		{
			agents.GET("", agentHandler.ListAgents)
			agents.POST("", agentHandler.CreateAgent)
			agents.GET("/:slug", agentHandler.GetAgent)
			agents.PUT("/:slug", agentHandler.UpdateAgent)
			agents.DELETE("/:slug", agentHandler.DeleteAgent)
		}

		// GET /api/v1/status - Service counters
		v1.GET("/status", statusHandler.GetStatus)
	}

	return r
}
