package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/internal/services/export"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

var importDryRun bool

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import transcript files into the corpus",
	Long: `Extract podcast episodes from files and add them to the corpus.

Directories are walked recursively. Every file is examined; files that
cannot be processed are listed after the summary without stopping the import.

Example:
  transcript-search import ~/Downloads/transcripts.zip
  transcript-search import ./exports --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "show what would be imported without storing anything")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	files, total, err := collectFiles(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Examining %d file(s), %s\n", len(files), humanize.IBytes(uint64(total)))

	if importDryRun {
		extractor := transcript.NewExtractor(transcript.WithMaxFileSize(int64(cfg.Import.MaxFileSize)))
		result := transcript.NewProcessor(extractor, nil).Process(cmd.Context(), files)
		printImportResult(cmd, &result)
		fmt.Fprintln(out, "Dry run: nothing was stored")
		return nil
	}

	svc, db, err := openCorpus(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := svc.Import(cmd.Context(), files)
	if err != nil {
		return err
	}

	printImportResult(cmd, result)
	if result.Outcome() == transcript.OutcomeFound {
		fmt.Fprintf(out, "Corpus now holds %d episode(s)\n", svc.Len())
	}
	return nil
}

func printImportResult(cmd *cobra.Command, result *transcript.FileProcessingResult) {
	out := cmd.OutOrStdout()

	if len(result.Episodes) > 0 {
		rows := make([][]string, len(result.Episodes))
		for i, ep := range result.Episodes {
			rows[i] = []string{
				ep.ID,
				ep.Title,
				ep.PodcastTitle,
				strconv.Itoa(len(ep.Transcript)),
				export.Timestamp(ep.Duration),
			}
		}
		fmt.Fprintln(out, renderTable([]column{
			{Header: "ID"},
			{Header: "Episode", WidthMax: 40},
			{Header: "Podcast", WidthMax: 30},
			{Header: "Segments", Align: alignRight},
			{Header: "Duration", Align: alignRight},
		}, rows))
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(out, "Problems:")
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  • %s\n", msg)
		}
	}

	fmt.Fprintln(out, result.Message())
}

// collectFiles expands paths into files, walking directories. Hidden directories are skipped.
func collectFiles(paths []string) ([]transcript.File, int64, error) {
	var (
		files []transcript.File
		total int64
	)
	add := func(path string) error {
		f, err := transcript.FileFromPath(path)
		if err != nil {
			return err
		}
		files = append(files, f)
		total += f.Size
		return nil
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, 0, fmt.Errorf("cannot read %s: %w", root, err)
		}
		if !info.IsDir() {
			if err := add(root); err != nil {
				return nil, 0, err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, 0, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	return files, total, nil
}
