package videos

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
	"github.com/codio-labs/codio-api/internal/services/resolver"
	apperrors "github.com/codio-labs/codio-api/pkg/errors"
)

// GetCode resolves a paused timestamp to the segment on screen
// @Summary      Pause-to-code lookup
// @Description  Finds the segment closest to the given timestamp within the tolerance window, returning extracted code or the learning topic on screen
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video identifier"
// @Param        timestamp query number true "Paused timestamp in seconds"
// @Param        tolerance query number false "Matching window in seconds"
// @Success      200 {object} types.CodeResponse "Resolution result"
// @Failure      400 {object} types.ErrorResponse "Bad request"
// @Failure      404 {object} types.ErrorResponse "Video not analyzed"
// @Router       /api/v1/videos/{id}/code [get]
func GetCode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		if c.Query("timestamp") == "" {
			types.SendBadRequest(c, "timestamp query parameter is required")
			return
		}

		timestamp, ok := types.ParseFloatQuery(c, "timestamp", 0)
		if !ok {
			return
		}
		tolerance, ok := types.ParseFloatQuery(c, "tolerance", deps.DefaultTolerance)
		if !ok {
			return
		}

		result, err := deps.Resolver.Resolve(c.Request.Context(), videoID, timestamp, tolerance)
		if err != nil {
			c.JSON(apperrors.GetHTTPCode(err), types.ErrorResponse{Error: err.Error()})
			return
		}

		switch result.Kind {
		case resolver.KindUnavailable:
			c.JSON(http.StatusNotFound, types.CodeResponse{
				VideoID:            videoID,
				Found:              false,
				Reason:             "Video has not been analyzed",
				TimestampRequested: timestamp,
			})
		case resolver.KindNoMatch:
			types.SendSuccess(c, types.CodeResponse{
				VideoID:            videoID,
				Found:              false,
				Reason:             "No segment within tolerance",
				TimestampRequested: timestamp,
			})
		default:
			seg := result.Segment
			resp := types.CodeResponse{
				VideoID:            videoID,
				Found:              true,
				TimestampRequested: result.TimestampRequested,
				TimestampActual:    result.TimestampActual,
				TimeDifference:     result.TimeDifference,
				SegmentType:        string(seg.SegmentType),
				Confidence:         seg.Confidence,
			}
			if seg.HasCode() {
				resp.CodeContent = seg.CodeContent
				resp.Language = seg.Language
				resp.CodeComplete = seg.CodeComplete
			} else {
				resp.Reason = "Learning phase - No code at this timestamp"
				resp.LearningTopic = seg.LearningTopic
			}
			types.SendSuccess(c, resp)
		}
	}
}
