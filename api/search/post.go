package search

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
	"github.com/killallgit/transcript-search/internal/services/search"
	apperrors "github.com/killallgit/transcript-search/pkg/errors"
)

// Post handles transcript search requests
// @Summary      Search transcripts
// @Description  Finds segments containing the query across every episode. Results are ranked by number of matches, then by timestamp, and carry the segment text with matches wrapped in <mark> tags. An empty query returns no results.
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request body types.SearchRequest true "Search parameters"
// @Success      200 {object} types.SearchResponse "Ranked search results"
// @Failure      400 {object} types.ErrorResponse "Bad request - invalid parameters"
// @Router       /api/v1/search [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SearchRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		limit, err := resolveLimit(req.Limit, deps.Limits)
		if err != nil {
			types.SendError(c, err)
			return
		}

		query := strings.TrimSpace(req.Query)
		results := deps.Corpus.Search(query, search.Options{
			CaseSensitive: req.CaseSensitive,
			WholeWords:    req.WholeWords,
			Limit:         limit,
		})

		c.JSON(http.StatusOK, types.SearchResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: fmt.Sprintf("%d result(s)", len(results)),
			},
			Query:   query,
			Results: results,
			Count:   len(results),
		})
	}
}

// resolveLimit applies the configured default and rejects values above the maximum
func resolveLimit(requested int, limits types.SearchLimits) (int, error) {
	switch {
	case requested < 0:
		return 0, apperrors.ValidationError("limit", "must not be negative")
	case requested == 0:
		return limits.Default, nil
	case limits.Max > 0 && requested > limits.Max:
		return 0, apperrors.ValidationError("limit", fmt.Sprintf("must be at most %d", limits.Max))
	default:
		return requested, nil
	}
}
