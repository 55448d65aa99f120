package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recognized settings and their built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SETTING\tDEFAULT\tROOT-RELATIVE")
		defaults := config.Defaults()
		for _, name := range config.Names() {
			fmt.Fprintf(w, "%s\t%s\t%t\n", name, defaults[name], config.RootRelative(name))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
