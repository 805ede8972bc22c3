package types

import (
	"github.com/killallgit/transcript-search/internal/models"
	"github.com/killallgit/transcript-search/internal/services/search"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ImportResponse reports what an upload produced
type ImportResponse struct {
	BaseResponse
	Outcome  string               `json:"outcome"` // found, errors or none
	Episodes []transcript.Episode `json:"episodes"`
	Errors   []string             `json:"errors"`
	Count    int                  `json:"count"` // Number of episodes imported
}

// EpisodesResponse for episode listings
type EpisodesResponse struct {
	BaseResponse
	Episodes []models.EpisodeSummary `json:"episodes"`
	Count    int                     `json:"count"`
}

// SingleEpisodeResponse for getting a single episode
type SingleEpisodeResponse struct {
	BaseResponse
	Episode *transcript.Episode `json:"episode"`
}

// SegmentResponse for getting a single segment
type SegmentResponse struct {
	BaseResponse
	EpisodeID string              `json:"episodeId"`
	Segment   *transcript.Segment `json:"segment"`
}

// SearchResponse for search results
type SearchResponse struct {
	BaseResponse
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Count   int             `json:"count"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`   // Error code
	Details any    `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Episodes  int            `json:"episodes"`
	Database  map[string]any `json:"database"`
}

// VersionResponse for the version endpoint
type VersionResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
}
