package concepts

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// RegisterRoutes registers concept routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:id/concepts", ListConcepts(deps))
	router.POST("/:id/concepts/detect", Detect(deps))
}
