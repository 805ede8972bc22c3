package imports

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// RegisterRoutes registers import routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/imports (router already includes /imports prefix)
	router.POST("", Post(deps))
}
