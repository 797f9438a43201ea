package videos

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// Process starts video analysis
// @Summary      Process a video
// @Description  Downloads the video, samples frames at a fixed interval, and classifies each frame for code content. Idempotent: an active job or a cached analysis short-circuits.
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        request body types.ProcessRequest true "Video URL and options"
// @Success      200 {object} types.ProcessResponse "Analysis already cached"
// @Success      202 {object} types.ProcessResponse "Job started or already running"
// @Failure      400 {object} types.ErrorResponse "Bad request"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/videos/process [post]
func Process(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ProcessRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		result, err := deps.Registry.Start(c.Request.Context(), req.URL, req.Force)
		if err != nil {
			types.SendInternalError(c, "Failed to start processing: "+err.Error())
			return
		}

		resp := types.ProcessResponse{
			VideoID:  result.VideoID,
			JobID:    result.Status.JobID,
			Status:   string(result.Status.Status),
			Progress: result.Status.Progress,
			Stage:    result.Status.Stage,
			Cached:   result.AlreadyComplete,
		}

		if result.AlreadyComplete {
			c.JSON(http.StatusOK, resp)
			return
		}
		types.SendAccepted(c, resp)
	}
}
