package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcript-search/pkg/transcript"
)

// Build variables, set at build time with -ldflags "-X"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Display the build of Transcript Search and the transcript formats it reads.

Files whose extension is not listed are still examined: structured data,
markup and free text are tried in that order.`,
	Args: cobra.NoArgs,
	Run:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", Version)
		return
	}

	rows := [][]string{
		{"Version", "v" + Version},
		{"Git Commit", GitCommit},
		{"Build Time", BuildTime},
		{"Go", runtime.Version()},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
		{"Formats", strings.Join(transcript.Extensions(), " ")},
	}
	fmt.Fprintln(out, "Transcript Search")
	fmt.Fprintln(out, renderTable([]column{{Header: "Build"}, {Header: "Value", WidthMax: 60}}, rows))
}
