package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/pkg/config"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcript-search",
	Short: "Podcast transcript importer and search engine",
	Long: `Transcript Search - import podcast transcripts from exported files and search them

Podcast apps export transcripts in many shapes. This tool reads them all,
normalizes every episode into one model and keeps a local searchable corpus.

Supported inputs:
  • JSON exports (single episode, episode lists, segment arrays)
  • Property-list / XML documents
  • Plain text transcripts with speaker lines
  • WebVTT and SRT subtitles
  • ZIP archives of any of the above`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultConfigFile, "config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides config")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// setup loads configuration and installs the default logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), slog.LevelInfo, false))
		return nil
	}

	if err := loadConfig(); err != nil {
		return err
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	levelName := cfg.Logging.Level
	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		levelName = flag.Value.String()
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return err
	}

	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	jsonLogs = jsonLogs || cfg.Logging.Format == "json"

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level, jsonLogs))
	return nil
}

// loadConfig reads the configuration file named by --config
func loadConfig() error {
	if configFile == "" || configFile == config.DefaultConfigFile {
		if err := config.Init(); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		return nil
	}
	if err := config.Load(configFile); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	return nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return level, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// newLogger writes JSON records, or colourised text when w is a terminal
func newLogger(w io.Writer, level slog.Level, jsonLogs bool) *slog.Logger {
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}))
}
