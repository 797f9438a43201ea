package concepts

import (
	"github.com/gin-gonic/gin"

	"github.com/codio-labs/codio-api/api/types"
)

// Detect runs concept detection for a video, replacing any prior result
// @Summary      Detect programming concepts
// @Description  Runs one classifier pass over the video's transcript and extracted code, replacing the stored concept set
// @Tags         concepts
// @Produce      json
// @Param        id path string true "Video identifier"
// @Success      200 {object} types.ConceptsResponse "Detected concepts"
// @Failure      404 {object} types.ErrorResponse "Video not known"
// @Failure      500 {object} types.ErrorResponse "Detection failed"
// @Router       /api/v1/videos/{id}/concepts/detect [post]
func Detect(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		sourceURL, ok := deps.SourceURLFor(c.Request.Context(), videoID)
		if !ok {
			types.SendNotFound(c, "Video has not been processed")
			return
		}

		concepts, err := deps.ConceptService.Detect(c.Request.Context(), videoID, sourceURL)
		if err != nil {
			types.SendInternalError(c, "Concept detection failed: "+err.Error())
			return
		}

		types.SendSuccess(c, types.ConceptsResponse{
			VideoID:  videoID,
			Count:    len(concepts),
			Concepts: concepts,
		})
	}
}

// ListConcepts returns the stored concept set, empty when detection has
// never run
func ListConcepts(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		concepts, err := deps.ConceptService.List(c.Request.Context(), videoID)
		if err != nil {
			types.SendInternalError(c, "Failed to load concepts: "+err.Error())
			return
		}

		types.SendSuccess(c, types.ConceptsResponse{
			VideoID:  videoID,
			Count:    len(concepts),
			Concepts: concepts,
		})
	}
}
