package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/internal/services/export"
)

// episodesCmd represents the episodes command
var episodesCmd = &cobra.Command{
	Use:   "episodes",
	Short: "List the episodes in the corpus",
	Args:  cobra.NoArgs,
	RunE:  runEpisodes,
}

var episodesDeleteCmd = &cobra.Command{
	Use:   "delete <episode-id>",
	Short: "Remove an episode from the corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodesDelete,
}

func init() {
	rootCmd.AddCommand(episodesCmd)
	episodesCmd.AddCommand(episodesDeleteCmd)
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	svc, db, err := openCorpus(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "The corpus is empty. Add transcripts with the import command.")
		return nil
	}

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.ID,
			s.Title,
			s.PodcastTitle,
			s.PublishDate,
			export.Timestamp(s.Duration),
			strconv.Itoa(s.SegmentCount),
		}
	}
	fmt.Fprintln(out, renderTable([]column{
		{Header: "ID"},
		{Header: "Title", WidthMax: 40},
		{Header: "Podcast", WidthMax: 30},
		{Header: "Published"},
		{Header: "Duration", Align: alignRight},
		{Header: "Segments", Align: alignRight},
	}, rows))
	fmt.Fprintf(out, "%d episode(s)\n", len(summaries))
	return nil
}

func runEpisodesDelete(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	svc, db, err := openCorpus(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
