package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the corpus database schema",
	Long: `Apply the corpus schema to the configured database.

Other commands migrate automatically; this is useful to prepare a database
ahead of time or to check that the configured path is usable.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.HealthCheck(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date at %s\n", cfg.Database.Path)
	return nil
}
