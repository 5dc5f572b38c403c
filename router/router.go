package router

import (
	"github.com/studyforge/backend/handler"
	"github.com/studyforge/backend/metrics"
	"github.com/studyforge/backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(libraryHandler *handler.LibraryHandler, pipelineHandler *handler.PipelineHandler, healthHandler *handler.HealthHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(metrics.GinMiddleware("studyforge"))

	r.GET("/healthz", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Trigger endpoint is service-internal: invoked by the consumer host
		// or an operator re-running a stuck item.
		api.POST("/pipeline/process", pipelineHandler.Process)

		library := api.Group("/library", middleware.JWTAuth(jwtSecret))
		{
			library.POST("/upload", libraryHandler.Upload)
			library.GET("", libraryHandler.List)
			library.GET("/:id", libraryHandler.Get)
			library.GET("/:id/url", libraryHandler.FileURL)
			library.DELETE("/:id", libraryHandler.Delete)
		}
	}
	return r
}
