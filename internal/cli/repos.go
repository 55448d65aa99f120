package cli

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
	"github.com/radekholy24/dnf-extra-tests/internal/dnfconf"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List the repository definitions DNF would discover",
	Long: `Repos resolves the effective reposdir the same way the scenarios do,
parses the .repo files found there and prints each repository with its
substitution variables expanded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRepos(cmd, afero.NewOsFs())
	},
}

func listRepos(cmd *cobra.Command, fs afero.Fs) error {
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
	dir, err := resolver.ResolvePath(config.ReposDir, root)
	if err != nil {
		return err
	}

	repos, err := dnfconf.LoadRepoDir(fs, dir)
	if err != nil {
		return err
	}

	vars := dnfconf.Vars{BaseArch: baseArch()}
	if releasever, err := resolver.Releasever(root); err == nil {
		vars.ReleaseVer = releasever
	} else if !errors.Is(err, config.ErrNoReleasever) {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENABLED\tSOURCE")
	for _, repo := range repos {
		repo = repo.Expand(vars)
		source := repo.BaseURL
		if source == "" {
			source = repo.Metalink
		}
		if source == "" {
			source = repo.Mirrorlist
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", repo.ID, repo.Enabled, source)
	}
	return w.Flush()
}

// baseArch maps the Go architecture to RPM's basearch vocabulary.
func baseArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i386"
	case "ppc64le", "s390x", "riscv64":
		return runtime.GOARCH
	}
	return runtime.GOARCH
}

func init() {
	reposCmd.Flags().StringVar(&resolveFlags.configPath, "config", "",
		"DNF configuration file to read (default: none)")
	reposCmd.Flags().StringArrayVar(&resolveFlags.set, "set", nil,
		"command-line setting as name=value (repeatable)")
	rootCmd.AddCommand(reposCmd)
}
