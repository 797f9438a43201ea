package transcripts

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// RegisterRoutes registers transcript routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:id/transcript/search", Search(deps))
}
