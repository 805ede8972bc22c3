package episodes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// GetAll lists every episode in the corpus in import order
// @Summary      List episodes
// @Description  Returns a summary of every stored episode in import order
// @Tags         episodes
// @Produce      json
// @Success      200 {object} types.EpisodesResponse
// @Failure      500 {object} types.ErrorResponse
// @Router       /api/v1/episodes [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := deps.Corpus.List(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.EpisodesResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: fmt.Sprintf("%d episode(s) in the corpus", len(summaries)),
			},
			Episodes: summaries,
			Count:    len(summaries),
		})
	}
}
