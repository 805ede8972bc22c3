package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/killallgit/transcript-search/internal/models"
	"github.com/killallgit/transcript-search/internal/services/search"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

const (
	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 100 * time.Millisecond
)

// Service implements the CorpusService interface
type Service struct {
	repo        Repository
	engine      *search.Engine
	processor   *transcript.Processor
	lock        *flock.Flock
	lockTimeout time.Duration
	mu          sync.Mutex
	logger      *slog.Logger
}

// ServiceOption configures the corpus service
type ServiceOption func(*Service)

// WithProcessor sets the batch processor used for imports
func WithProcessor(p *transcript.Processor) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithLockFile serializes writers across processes with an advisory lock on path
func WithLockFile(path string) ServiceOption {
	return func(s *Service) {
		if path != "" {
			s.lock = flock.New(path)
		}
	}
}

// WithLockTimeout bounds how long an import waits for the lock
func WithLockTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a corpus service. The engine receives a fresh snapshot on every change.
func NewService(repo Repository, engine *search.Engine, opts ...ServiceOption) *Service {
	s := &Service{
		repo:        repo,
		engine:      engine,
		lockTimeout: defaultLockTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = search.NewEngine(nil)
	}
	if s.processor == nil {
		s.processor = transcript.NewProcessor(transcript.NewExtractor(transcript.WithLogger(s.logger)), s.logger)
	}
	return s
}

// Engine returns the search engine fed by this corpus
func (s *Service) Engine() *search.Engine {
	return s.engine
}

// Len returns the number of searchable episodes
func (s *Service) Len() int {
	return s.engine.Len()
}

// Load reads the stored corpus into the search engine
func (s *Service) Load(ctx context.Context) error {
	episodes, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.engine.Replace(episodes)
	s.logger.Info("corpus loaded", "episodes", len(episodes))
	return nil
}

// Import runs files through the batch processor and stores every episode found. Per-file
// problems are returned in the result; the error is only for storage and locking failures.
func (s *Service) Import(ctx context.Context, files []transcript.File) (*transcript.FileProcessingResult, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := s.processor.Process(ctx, files)
	if err := s.repo.SaveAll(ctx, result.Episodes); err != nil {
		return nil, fmt.Errorf("store imported episodes: %w", err)
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("import finished",
		"files", len(files),
		"episodes", len(result.Episodes),
		"errors", len(result.Errors),
		"outcome", result.Outcome(),
	)
	return &result, nil
}

// List returns summaries of every episode in import order
func (s *Service) List(ctx context.Context) ([]models.EpisodeSummary, error) {
	episodes, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.EpisodeSummary, len(episodes))
	for i, ep := range episodes {
		summaries[i] = models.Summarize(ep)
	}
	return summaries, nil
}

// Get returns one episode with its transcript
func (s *Service) Get(ctx context.Context, episodeID string) (*transcript.Episode, error) {
	if ep, ok := s.engine.Episode(episodeID); ok {
		return ep, nil
	}
	return s.repo.Get(ctx, episodeID)
}

// Segment returns one segment of an episode
func (s *Service) Segment(ctx context.Context, episodeID, segmentID string) (*transcript.Segment, error) {
	ep, err := s.Get(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	seg, ok := ep.Segment(segmentID)
	if !ok {
		return nil, NewSegmentNotFound(episodeID, segmentID)
	}
	return seg, nil
}

// Delete removes an episode and refreshes search
func (s *Service) Delete(ctx context.Context, episodeID string) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.Delete(ctx, episodeID); err != nil {
		return err
	}
	s.logger.Info("episode deleted", "episode", episodeID)
	return s.Load(ctx)
}

// Search runs a query against the current snapshot
func (s *Service) Search(query string, opts search.Options) []search.Result {
	return s.engine.Search(query, opts)
}

// acquire takes the in-process writer lock and, when configured, the file lock
func (s *Service) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()
	if s.lock == nil {
		return s.mu.Unlock, nil
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		s.mu.Unlock()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire corpus lock: %w", err)
		}
		return nil, ErrImportLocked
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release corpus lock", "path", s.lock.Path(), "error", err)
		}
		s.mu.Unlock()
	}, nil
}
