// Package cli wires the dnf-extra-tests commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	logLevel  string
	dnfBin    string
	rpmBin    string
	resources string
	noColor   bool
}

var rootCmd = &cobra.Command{
	Use:   "dnf-extra-tests",
	Short: "Check DNF configuration behavior against scenario suites",
	Long: `dnf-extra-tests runs acceptance scenarios against a DNF installation
and verifies where DNF reads its configuration from and where it leaves
its traces, especially under a custom install root.

The scenarios mutate the system they run on. Run them on a disposable
test machine only.`,
	SilenceUsage: true,
}

// Execute runs the root command. It returns a process exit code.
func Execute() int {
	cfg, err := LoadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", configFileName, err)
		return 1
	}
	applyAppConfig(cfg)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// applyAppConfig seeds flag defaults from the config file. Flags given
// on the command line still win; cobra overwrites these defaults when
// it parses.
func applyAppConfig(cfg *AppConfig) {
	if cfg.LogLevel != "" {
		rootFlags.logLevel = cfg.LogLevel
	}
	if cfg.DNFBin != "" {
		rootFlags.dnfBin = cfg.DNFBin
	}
	if cfg.RPMBin != "" {
		rootFlags.rpmBin = cfg.RPMBin
	}
	if cfg.Resources != "" {
		rootFlags.resources = cfg.Resources
	}
	if cfg.Features != "" {
		runFlags.features = cfg.Features
	}
	if cfg.NoColor {
		rootFlags.noColor = true
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", LogLevelNone,
		"log level (none, info, debug)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.dnfBin, "dnf", "dnf",
		"dnf executable to test")
	rootCmd.PersistentFlags().StringVar(&rootFlags.rpmBin, "rpm", "rpm",
		"rpm executable to verify with")
	rootCmd.PersistentFlags().StringVar(&rootFlags.resources, "resources", "resources",
		"directory with the test fixtures (repository, GPG key, plugin)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.noColor, "no-color", false,
		"disable colored output")
}
