package episodes

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// RegisterRoutes registers episode routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/episodes - List the corpus
	router.GET("", GetAll(deps))

	// GET /api/v1/episodes/:id - Get episode with transcript
	router.GET("/:id", GetByID(deps))

	// DELETE /api/v1/episodes/:id - Remove episode from the corpus
	router.DELETE("/:id", Delete(deps))

	// GET /api/v1/episodes/:id/segments/:segmentId - Get a single segment
	router.GET("/:id/segments/:segmentId", GetSegment(deps))

	// GET /api/v1/episodes/:id/export - Download the transcript as text or markdown
	router.GET("/:id/export", GetExport(deps))
}
