package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// Cancel requests cancellation of a video's active job. Cancelling a video
// with no active job is a no-op and never disturbs cached results.
func Cancel(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		cancelled := deps.Registry.Cancel(videoID)

		message := "No active job for video"
		if cancelled {
			message = "Cancellation requested"
		}

		types.SendSuccess(c, types.CancelResponse{
			VideoID:   videoID,
			Cancelled: cancelled,
			Message:   message,
		})
	}
}
