package transcripts

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// Search finds transcript entries containing a substring
// @Summary      Search a video's transcript
// @Description  Builds the transcript index lazily from the video's caption track, then performs substring matching over its entries
// @Tags         transcripts
// @Produce      json
// @Param        id path string true "Video identifier"
// @Param        q query string true "Search query"
// @Param        case_sensitive query boolean false "Match case sensitively"
// @Success      200 {object} types.TranscriptSearchResponse "Search results"
// @Failure      400 {object} types.ErrorResponse "Bad request"
// @Failure      404 {object} types.ErrorResponse "Video not known"
// @Router       /api/v1/videos/{id}/transcript/search [get]
func Search(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		query := c.Query("q")
		if query == "" {
			types.SendBadRequest(c, "q query parameter is required")
			return
		}
		caseSensitive := types.ParseBoolQuery(c, "case_sensitive", false)

		sourceURL, ok := deps.SourceURLFor(c.Request.Context(), videoID)
		if !ok {
			types.SendNotFound(c, "Video has not been processed")
			return
		}

		matches, err := deps.TranscriptService.Search(c.Request.Context(), videoID, sourceURL, query, caseSensitive)
		if err != nil {
			types.SendInternalError(c, "Transcript search failed: "+err.Error())
			return
		}

		types.SendSuccess(c, types.TranscriptSearchResponse{
			VideoID: videoID,
			Query:   query,
			Count:   len(matches),
			Matches: matches,
		})
	}
}
