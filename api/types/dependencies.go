package types

import (
	"github.com/killallgit/transcript-search/internal/database"
	"github.com/killallgit/transcript-search/internal/services/corpus"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	Corpus        corpus.CorpusService
	Limits        SearchLimits
	MaxUploadSize int64
	Build         BuildInfo
}

// SearchLimits bounds the number of results a search may return
type SearchLimits struct {
	Default int
	Max     int
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
}
