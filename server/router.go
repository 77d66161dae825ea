package server

import (
	"time"

	httpHandler "clipflow/interfaces/http"
	"clipflow/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	healthHandler httpHandler.IHealthHandler,
	publishHandler httpHandler.IPublishHandler,
	generateHandler httpHandler.IGenerateHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "https://localhost:4200", "https://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)
	router.POST("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	api.POST("/publish/run", publishHandler.RunNow)
	api.GET("/publish/last-run", publishHandler.LastRun)

	api.POST("/projects/:projectId/generate", generateHandler.GenerateVideos)
	api.POST("/videos/:videoId/adjust", generateHandler.AdjustScript)

	return router
}
