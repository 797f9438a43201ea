package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
	"github.com/codio-labs/codio-api/internal/models"
)

// GetSegments lists a video's extracted segments, optionally filtered by
// segment type and minimum confidence. Mid-job it returns whatever has been
// appended so far.
func GetSegments(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		segs, found, err := deps.SegmentService.Segments(c.Request.Context(), videoID)
		if err != nil {
			types.SendInternalError(c, "Failed to load segments: "+err.Error())
			return
		}
		if !found {
			types.SendNotFound(c, "Video has not been analyzed")
			return
		}

		segType := c.Query("type")
		minConfidence, ok := types.ParseFloatQuery(c, "min_confidence", 0)
		if !ok {
			return
		}

		filtered := make([]models.Segment, 0, len(segs))
		for _, seg := range segs {
			if segType != "" && string(seg.SegmentType) != segType {
				continue
			}
			if seg.Confidence < minConfidence {
				continue
			}
			filtered = append(filtered, seg)
		}

		types.SendSuccess(c, types.SegmentsResponse{
			VideoID:  videoID,
			Count:    len(filtered),
			Segments: filtered,
		})
	}
}
