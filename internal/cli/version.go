package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radekholy24/dnf-extra-tests/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dnf-extra-tests %s (commit %s, built %s)\n",
			version.Version, version.CommitHash, version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
