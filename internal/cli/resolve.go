package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
	"github.com/radekholy24/dnf-extra-tests/internal/dnfconf"
)

var resolveFlags struct {
	configPath string
	set        []string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the effective DNF configuration",
	Long: `Resolve computes the effective value of every recognized setting the
same way the scenarios do: command-line options override the
configuration file, which overrides the built-in defaults.

Root-relative settings are additionally shown as the path DNF would
use under the active install root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveSettings(cmd)
	},
}

func resolveSettings(cmd *cobra.Command) error {
	fs := afero.NewOsFs()

	var fileTable map[string]string
	if resolveFlags.configPath != "" {
		var err error
		fileTable, err = dnfconf.LoadMain(fs, resolveFlags.configPath)
		if err != nil {
			return err
		}
	}

	commandLine := make([]config.Option, 0, len(resolveFlags.set))
	for _, pair := range resolveFlags.set {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: expected name=value", pair)
		}
		commandLine = append(commandLine, config.Option{Name: name, Value: value})
	}

	resolver, err := config.NewResolver(fileTable, commandLine)
	if err != nil {
		return err
	}
	root, err := config.NewRootContext(fs, resolver)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	for _, name := range config.Names() {
		value, source, err := resolver.ResolveSource(name)
		if err != nil {
			return err
		}
		display := value
		if config.RootRelative(name) {
			path, err := resolver.ResolvePath(name, root)
			if err != nil {
				return err
			}
			display = path
		}
		fmt.Fprintf(w, "%s\t%s\t(%s)\n", name, display, source)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	releasever, err := resolver.Releasever(root)
	switch {
	case errors.Is(err, config.ErrNoReleasever):
		fmt.Fprintln(cmd.OutOrStdout(), "releasever: not detectable")
	case err != nil:
		return err
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "releasever: %s\n", releasever)
	}
	return nil
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFlags.configPath, "config", "",
		"DNF configuration file to read (default: none)")
	resolveCmd.Flags().StringArrayVar(&resolveFlags.set, "set", nil,
		"command-line setting as name=value (repeatable)")
	rootCmd.AddCommand(resolveCmd)
}
