package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/killallgit/transcript-search/internal/database"
	"github.com/killallgit/transcript-search/internal/services/corpus"
	"github.com/killallgit/transcript-search/pkg/config"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

// openCorpus connects to the corpus database and loads it into a search engine.
// The caller closes the returned database.
func openCorpus(ctx context.Context, cfg *config.Config) (*corpus.Service, *database.DB, error) {
	db, err := database.Open(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger := slog.Default()
	extractor := transcript.NewExtractor(
		transcript.WithMaxFileSize(int64(cfg.Import.MaxFileSize)),
		transcript.WithLogger(logger),
	)

	svc := corpus.NewService(corpus.NewRepository(db.DB), nil,
		corpus.WithProcessor(transcript.NewProcessor(extractor, logger)),
		corpus.WithLockFile(cfg.Database.LockPath()),
		corpus.WithLockTimeout(cfg.Import.LockTimeout),
		corpus.WithLogger(logger),
	)

	if err := svc.Load(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	return svc, db, nil
}

// commandConfig returns the configuration loaded by the root command
func commandConfig() (*config.Config, error) {
	if !config.IsInitialized() {
		if err := loadConfig(); err != nil {
			return nil, err
		}
	}
	return config.GetConfig()
}
