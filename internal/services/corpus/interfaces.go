package corpus

import (
	"context"

	"github.com/killallgit/transcript-search/internal/models"
	"github.com/killallgit/transcript-search/internal/services/search"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

// CorpusService defines the operations on the stored episode corpus
type CorpusService interface {
	// Load reads the stored corpus and hands it to the search engine
	Load(ctx context.Context) error

	// Import extracts episodes from files, stores them and refreshes search
	Import(ctx context.Context, files []transcript.File) (*transcript.FileProcessingResult, error)

	// List returns summaries of every stored episode in import order
	List(ctx context.Context) ([]models.EpisodeSummary, error)

	// Get returns one episode with its transcript
	Get(ctx context.Context, episodeID string) (*transcript.Episode, error)

	// Segment returns one segment of an episode
	Segment(ctx context.Context, episodeID, segmentID string) (*transcript.Segment, error)

	// Delete removes an episode and refreshes search
	Delete(ctx context.Context, episodeID string) error

	// Len returns the number of searchable episodes
	Len() int

	// Search runs a query against the current corpus snapshot
	Search(query string, opts search.Options) []search.Result
}

// Repository defines corpus persistence
type Repository interface {
	// SaveAll stores new episodes in one transaction
	SaveAll(ctx context.Context, episodes []transcript.Episode) error

	// LoadAll returns every episode in import order with segments in playback order
	LoadAll(ctx context.Context) ([]transcript.Episode, error)

	// Get returns one episode with its transcript
	Get(ctx context.Context, episodeID string) (*transcript.Episode, error)

	// Delete removes an episode and its segments
	Delete(ctx context.Context, episodeID string) error

	// Count returns the number of stored episodes
	Count(ctx context.Context) (int64, error)
}

var _ CorpusService = (*Service)(nil)
