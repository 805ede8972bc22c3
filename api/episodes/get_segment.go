package episodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// GetSegment returns one segment of an episode, the target of a search result link
// @Summary      Get segment
// @Tags         episodes
// @Produce      json
// @Param        id path string true "Episode ID"
// @Param        segmentId path string true "Segment ID"
// @Success      200 {object} types.SegmentResponse
// @Failure      404 {object} types.ErrorResponse "Episode or segment not found"
// @Router       /api/v1/episodes/{id}/segments/{segmentId} [get]
func GetSegment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID := c.Param("id")
		segment, err := deps.Corpus.Segment(c.Request.Context(), episodeID, c.Param("segmentId"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SegmentResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Segment retrieved successfully",
			},
			EpisodeID: episodeID,
			Segment:   segment,
		})
	}
}
