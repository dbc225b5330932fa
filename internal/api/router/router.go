package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pbes/hscode-service/internal/api/handler"
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
		response := gin.H{
			"status":  "healthy",
			"service": "hscode-api-service",
		}

		if deps.DBHealth != nil {
			if err := deps.DBHealth(c.Request.Context()); err != nil {
				response["status"] = "degraded"
				response["database"] = err.Error()
			} else {
				response["database"] = "ok"
			}
		}

		c.JSON(http.StatusOK, response)
	})

	scanHandler := handler.NewScanHandler(deps)
	referenceHandler := handler.NewReferenceHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		hscode := v1.Group("/hscode")
		{
			// POST /api/v1/hscode/scan - Submit a scan, returns a job id
			hscode.POST("/scan", scanHandler.StartScan)

			// GET /api/v1/hscode/scan/:job_id - Poll a scan job
			hscode.GET("/scan/:job_id", scanHandler.GetScanStatus)

			// GET /api/v1/hscode/recent - Recently classified items
			hscode.GET("/recent", scanHandler.GetRecent)

			reference := hscode.Group("/reference")
			{
				// POST /api/v1/hscode/reference/reload - Force workbook reload
				reference.POST("/reload", referenceHandler.Reload)

				// GET /api/v1/hscode/reference/lookup/:code - Hierarchical lookup
				reference.GET("/lookup/:code", referenceHandler.Lookup)

				// POST /api/v1/hscode/reference/search - Ranked free-text search
				reference.POST("/search", referenceHandler.Search)
			}
		}
	}

	return r
}
