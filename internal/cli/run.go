package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/radekholy24/dnf-extra-tests/internal/harness"
	"github.com/radekholy24/dnf-extra-tests/internal/report"
	"github.com/radekholy24/dnf-extra-tests/internal/scenario"
)

var runFlags struct {
	features string
}

var runCmd = &cobra.Command{
	Use:   "run [suite.yaml ...]",
	Short: "Run scenario suites against the system's DNF",
	Long: `Run executes the given scenario suites. Without arguments it runs
every .yaml suite found in the features directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuites(cmd, args)
	},
}

func runSuites(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(rootFlags.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", rootFlags.logLevel, err)
	}
	defer logger.Sync() //nolint:errcheck

	fs := afero.NewOsFs()
	paths := args
	if len(paths) == 0 {
		paths, err = afero.Glob(fs, filepath.Join(runFlags.features, "*.yaml"))
		if err != nil {
			return err
		}
		sort.Strings(paths)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no suite files found in %s", runFlags.features)
	}

	suites := make([]*scenario.Suite, 0, len(paths))
	for _, path := range paths {
		suite, err := scenario.LoadFile(fs, path)
		if err != nil {
			return err
		}
		suites = append(suites, suite)
	}

	runner := harness.New(harness.Params{
		DNFBin:    rootFlags.dnfBin,
		RPMBin:    rootFlags.rpmBin,
		Resources: rootFlags.resources,
		Logger:    logger,
	})

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !rootFlags.noColor

	var results []harness.Result
	for _, suite := range suites {
		var sp *spinner.Spinner
		if interactive {
			sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(os.Stderr))
			sp.Suffix = " " + suite.Feature
			sp.Start()
		}
		suiteResults := runner.RunSuite(cmd.Context(), suite)
		if sp != nil {
			sp.Stop()
		}
		results = append(results, suiteResults...)
	}

	theme := report.PlainTheme()
	if interactive {
		theme = report.DefaultTheme()
	}
	if failed := report.New(theme).Render(cmd.OutOrStdout(), results); failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runFlags.features, "features", "features",
		"directory with the scenario suite files")
	rootCmd.AddCommand(runCmd)
}
