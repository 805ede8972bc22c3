package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/transcript-search/api/episodes"
	"github.com/killallgit/transcript-search/api/health"
	"github.com/killallgit/transcript-search/api/imports"
	"github.com/killallgit/transcript-search/api/search"
	"github.com/killallgit/transcript-search/api/types"
	"github.com/killallgit/transcript-search/api/version"
	_ "github.com/killallgit/transcript-search/docs/swagger"
)

// RateLimits sets the per-client request rate for the API groups
type RateLimits struct {
	RPS   int
	Burst int
}

// imports are far heavier than reads
func (r RateLimits) forImports() (int, int) {
	rps, burst := r.RPS/10, r.Burst/10
	if rps < 1 {
		rps = 1
	}
	if burst < 2 {
		burst = 2
	}
	return rps, burst
}

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *rateLimiters, limits RateLimits) error {
	if deps == nil || deps.Corpus == nil {
		return errMissingCorpus
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	searchGroup := v1.Group("/search")
	searchGroup.Use(PerClientRateLimit(limiters, "search", limits.RPS, limits.Burst))
	search.RegisterRoutes(searchGroup, deps)

	episodeGroup := v1.Group("/episodes")
	episodeGroup.Use(PerClientRateLimit(limiters, "episodes", limits.RPS, limits.Burst))
	episodes.RegisterRoutes(episodeGroup, deps)

	importRPS, importBurst := limits.forImports()
	importGroup := v1.Group("/imports")
	importGroup.Use(PerClientRateLimit(limiters, "imports", importRPS, importBurst))
	imports.RegisterRoutes(importGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  types.StatusError,
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
