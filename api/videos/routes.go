package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// RegisterRoutes registers all video-related routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("/process", Process(deps))
	router.GET("", List(deps))
	router.GET("/:id/status", GetStatus(deps))
	router.POST("/:id/cancel", Cancel(deps))
	router.GET("/:id/code", GetCode(deps))
	router.GET("/:id/segments", GetSegments(deps))
	router.GET("/:id/info", GetInfo(deps))
	router.GET("/:id/timeline", GetTimeline(deps))
}
