package episodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// GetByID returns a single episode with its transcript
// @Summary      Get episode
// @Description  Returns an episode and every segment of its transcript in playback order
// @Tags         episodes
// @Produce      json
// @Param        id path string true "Episode ID"
// @Success      200 {object} types.SingleEpisodeResponse
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Failure      500 {object} types.ErrorResponse
// @Router       /api/v1/episodes/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episode, err := deps.Corpus.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SingleEpisodeResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Episode retrieved successfully",
			},
			Episode: episode,
		})
	}
}
