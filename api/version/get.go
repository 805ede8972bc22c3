package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
)

// Name is reported by the version endpoint
const Name = "Transcript Search API"

// Get handles version requests
// @Summary      Version
// @Description  Reports the build of the running server
// @Tags         version
// @Produce      json
// @Success      200 {object} types.VersionResponse
// @Router       /version [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.VersionResponse{
			Name:      Name,
			Version:   "dev",
			GitCommit: "unknown",
			BuildTime: "unknown",
		}
		if deps != nil {
			if deps.Build.Version != "" {
				response.Version = deps.Build.Version
			}
			if deps.Build.GitCommit != "" {
				response.GitCommit = deps.Build.GitCommit
			}
			if deps.Build.BuildTime != "" {
				response.BuildTime = deps.Build.BuildTime
			}
		}
		c.JSON(http.StatusOK, response)
	}
}
