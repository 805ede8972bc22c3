package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/api"
	"github.com/killallgit/transcript-search/api/types"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Transcript Search API server with the configured settings.

The server loads the stored corpus, accepts transcript uploads and answers
search requests. API documentation is served at /docs.

Example:
  transcript-search serve
  transcript-search serve --port 9090
  transcript-search serve --host 0.0.0.0 --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	// Use config values if flags not provided
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if slog.Default().Enabled(cmd.Context(), slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, db, err := openCorpus(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	server := api.NewServer(api.OptionsFromConfig(cfg))
	server.SetDependencies(&types.Dependencies{
		DB:     db,
		Corpus: svc,
		Limits: types.SearchLimits{
			Default: cfg.Search.DefaultLimit,
			Max:     cfg.Search.MaxLimit,
		},
		MaxUploadSize: int64(cfg.Server.MaxUploadSize),
		Build: types.BuildInfo{
			Version:   Version,
			GitCommit: GitCommit,
			BuildTime: BuildTime,
		},
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	slog.Info("server is ready to handle requests",
		"address", cfg.Server.Address(),
		"episodes", svc.Len(),
		"docs", fmt.Sprintf("http://%s/docs", cfg.Server.Address()),
	)

	// Wait for interrupt signal or server error
	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case runErr = <-serverErr:
		slog.Error("server stopped unexpectedly", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server gracefully stopped")
	return runErr
}
