package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/internal/services/export"
)

var (
	exportFormat     string
	exportTimestamps bool
	exportOutput     string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <episode-id>",
	Short: "Export an episode transcript as text or markdown",
	Long: `Render one episode of the corpus as a document.

Without --output the document is written to stdout. When --output names a
directory the file name is derived from the episode title.

Example:
  transcript-search export 3f2c... --format markdown --output ./notes
  transcript-search export 3f2c... --timestamps=false > episode.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "plain", "output format (plain, markdown)")
	exportCmd.Flags().BoolVar(&exportTimestamps, "timestamps", true, "prefix lines with [MM:SS] timestamps")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file or directory to write to")
}

func runExport(cmd *cobra.Command, args []string) error {
	style, err := export.ParseStyle(exportFormat)
	if err != nil {
		return err
	}

	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	svc, db, err := openCorpus(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	episode, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	document := export.Format(*episode, style, exportTimestamps)

	if exportOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), document)
		return err
	}

	path := exportOutput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.Filename(*episode, style))
	}
	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
