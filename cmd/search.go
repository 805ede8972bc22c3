package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/internal/services/export"
	"github.com/killallgit/transcript-search/internal/services/search"
)

var (
	searchCaseSensitive bool
	searchWholeWords    bool
	searchLimit         int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the transcript corpus",
	Long: `Find transcript segments containing a query.

Results are ranked by how often the query occurs in a segment, then by
position in the episode. Matching ignores case unless --case-sensitive is set.

Example:
  transcript-search search "machine learning"
  transcript-search search GPU --case-sensitive --whole-words --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "match case exactly")
	searchCmd.Flags().BoolVar(&searchWholeWords, "whole-words", false, "match whole words only")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum results (default from config)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	limit := searchLimit
	switch {
	case limit < 0:
		return fmt.Errorf("--limit must not be negative")
	case limit == 0:
		limit = cfg.Search.DefaultLimit
	case limit > cfg.Search.MaxLimit:
		return fmt.Errorf("--limit must be at most %d", cfg.Search.MaxLimit)
	}

	svc, db, err := openCorpus(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	query := strings.Join(args, " ")
	results := svc.Search(query, search.Options{
		CaseSensitive: searchCaseSensitive,
		WholeWords:    searchWholeWords,
		Limit:         limit,
	})

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No matches for %q\n", strings.TrimSpace(query))
		return nil
	}

	color := isTerminal(out)
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.EpisodeTitle,
			export.Timestamp(r.Timestamp),
			strconv.Itoa(r.Matches),
			renderHighlight(r.HighlightedText, color),
			r.EpisodeID + "/" + r.SegmentID,
		}
	}
	fmt.Fprintln(out, renderTable([]column{
		{Header: "Episode", WidthMax: 30},
		{Header: "Time", Align: alignRight},
		{Header: "Hits", Align: alignRight},
		{Header: "Text", WidthMax: 60},
		{Header: "Segment"},
	}, rows))
	fmt.Fprintf(out, "%d result(s)\n", len(results))
	return nil
}
