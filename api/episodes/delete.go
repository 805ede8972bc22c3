package episodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// Delete removes an episode from the corpus
// @Summary      Delete episode
// @Description  Removes an episode and its transcript; search results no longer include it
// @Tags         episodes
// @Produce      json
// @Param        id path string true "Episode ID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Failure      409 {object} types.ErrorResponse "Another import is running"
// @Router       /api/v1/episodes/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Corpus.Delete(c.Request.Context(), c.Param("id")); err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Episode deleted",
		})
	}
}
