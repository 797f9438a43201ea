package videos

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
	"github.com/codio-labs/codio-api/internal/models"
)

// GetInfo returns the cached analysis summary for a video
func GetInfo(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		analysis, err := deps.SegmentService.Load(c.Request.Context(), videoID)
		if err != nil {
			types.SendInternalError(c, "Failed to load analysis: "+err.Error())
			return
		}
		if analysis == nil {
			types.SendNotFound(c, "Video has not been analyzed")
			return
		}

		types.SendSuccess(c, toVideoInfo(analysis))
	}
}

// List returns summaries of all cached analyses
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		analyses, err := deps.SegmentService.ListAnalyses(c.Request.Context())
		if err != nil {
			types.SendInternalError(c, "Failed to list analyses: "+err.Error())
			return
		}

		videos := make([]types.VideoInfoResponse, 0, len(analyses))
		for i := range analyses {
			videos = append(videos, toVideoInfo(&analyses[i]))
		}

		types.SendSuccess(c, types.VideoListResponse{
			Count:  len(videos),
			Videos: videos,
		})
	}
}

func toVideoInfo(analysis *models.VideoAnalysis) types.VideoInfoResponse {
	return types.VideoInfoResponse{
		VideoID:             analysis.VideoID,
		Title:               analysis.Title,
		SourceURL:           analysis.SourceURL,
		Duration:            analysis.Duration,
		Author:              analysis.Author,
		TotalFramesAnalyzed: analysis.TotalFramesAnalyzed,
		CodeSegmentCount:    analysis.CodeSegmentCount(),
		ExtractionDate:      analysis.ExtractionDate.UTC().Format(time.RFC3339),
	}
}
