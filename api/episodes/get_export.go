package episodes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
	"github.com/killallgit/transcript-search/internal/services/export"
	apperrors "github.com/killallgit/transcript-search/pkg/errors"
)

// GetExport renders an episode transcript as a downloadable document
// @Summary      Export episode
// @Description  Renders the episode as plain text or markdown, optionally with [MM:SS] timestamps
// @Tags         episodes
// @Produce      plain
// @Produce      markdown
// @Param        id path string true "Episode ID"
// @Param        format query string false "plain or markdown" default(plain)
// @Param        timestamps query bool false "Prefix lines with timestamps" default(true)
// @Success      200 {string} string "Rendered transcript"
// @Failure      400 {object} types.ErrorResponse "Unknown format"
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Router       /api/v1/episodes/{id}/export [get]
func GetExport(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		style, err := export.ParseStyle(c.Query("format"))
		if err != nil {
			types.SendError(c, apperrors.ValidationError("format", err.Error()))
			return
		}

		timestamps, err := strconv.ParseBool(c.DefaultQuery("timestamps", "true"))
		if err != nil {
			types.SendError(c, apperrors.ValidationError("timestamps", "must be true or false"))
			return
		}

		episode, err := deps.Corpus.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		filename := export.Filename(*episode, style)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, style.ContentType(), []byte(export.Format(*episode, style, timestamps)))
	}
}
