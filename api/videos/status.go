package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// GetStatus reports processing state for a video
// @Summary      Get processing status
// @Description  Returns job progress for an active job, completed for a cached analysis, or not_found
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video identifier"
// @Success      200 {object} types.StatusResponse "Processing status"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/videos/{id}/status [get]
func GetStatus(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		status, err := deps.Registry.Status(c.Request.Context(), videoID)
		if err != nil {
			types.SendInternalError(c, "Failed to get status: "+err.Error())
			return
		}

		types.SendSuccess(c, types.StatusResponse{
			VideoID:      videoID,
			JobID:        status.JobID,
			Status:       string(status.Status),
			Progress:     status.Progress,
			Stage:        status.Stage,
			CurrentFrame: status.CurrentFrame,
			TotalFrames:  status.TotalFrames,
			Error:        status.Error,
		})
	}
}
