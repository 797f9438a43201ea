package videos

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// GetTimeline exports a video's code segments as a markdown document with
// timestamped code blocks
func GetTimeline(deps *types.Dependencies) gin.HandlerFunc {
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

		var b strings.Builder
		title := analysis.Title
		if title == "" {
			title = analysis.VideoID
		}
		fmt.Fprintf(&b, "# Code Timeline: %s\n\n", title)
		fmt.Fprintf(&b, "Source: %s\n\n", analysis.SourceURL)

		for i := range analysis.Segments {
			seg := &analysis.Segments[i]
			if !seg.HasCode() {
				continue
			}
			fmt.Fprintf(&b, "## %s\n\n", formatTimestamp(seg.Timestamp))
			if seg.LearningTopic != "" {
				fmt.Fprintf(&b, "%s\n\n", seg.LearningTopic)
			}
			lang := seg.Language
			if lang == "" {
				lang = "text"
			}
			fmt.Fprintf(&b, "```%s\n%s\n```\n\n", lang, seg.CodeContent)
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_timeline.md", videoID))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(b.String()))
	}
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
