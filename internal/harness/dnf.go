package harness

import (
	"context"
	"strings"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
	"github.com/radekholy24/dnf-extra-tests/internal/scenario"
)

// InvokeOptions are the command-line options a scenario drives DNF
// with.
type InvokeOptions struct {
	Config      string
	InstallRoot string
	ReleaseVer  string
	Quiet       bool
	AssumeYes   bool
	DisableRepo string
	EnableRepo  string
}

// args renders the options in a stable order.
func (o InvokeOptions) args() []string {
	var args []string
	if o.Quiet {
		args = append(args, "--quiet")
	}
	if o.AssumeYes {
		args = append(args, "--assumeyes")
	}
	if o.Config != "" {
		args = append(args, "--config", o.Config)
	}
	if o.InstallRoot != "" {
		args = append(args, "--installroot", o.InstallRoot)
	}
	if o.ReleaseVer != "" {
		args = append(args, "--releasever", o.ReleaseVer)
	}
	if o.DisableRepo != "" {
		args = append(args, "--disablerepo", o.DisableRepo)
	}
	if o.EnableRepo != "" {
		args = append(args, "--enablerepo", o.EnableRepo)
	}
	return args
}

// invokeOptionsFrom extracts the options DNF is invoked with from a
// scenario's command-line table. Later entries win, matching the
// resolver's command-line layer.
func invokeOptionsFrom(sc *scenario.Scenario) InvokeOptions {
	opts := InvokeOptions{Quiet: true, AssumeYes: true}
	_, commandLine, err := sc.ResolverInputs()
	if err != nil {
		return opts
	}
	for _, opt := range commandLine {
		switch opt.Name {
		case config.ConfigFilePath:
			opts.Config = opt.Value
		case config.InstallRoot:
			opts.InstallRoot = opt.Value
		case config.ReleaseVer:
			opts.ReleaseVer = opt.Value
		}
	}
	return opts
}

// DNF invokes the dnf executable.
type DNF struct {
	bin    string
	runner CommandRunner
}

// NewDNF returns a DNF bound to the given executable and runner.
func NewDNF(bin string, runner CommandRunner) *DNF {
	if bin == "" {
		bin = "dnf"
	}
	return &DNF{bin: bin, runner: runner}
}

func (d *DNF) run(ctx context.Context, o InvokeOptions, sub ...string) ([]byte, error) {
	args := append(o.args(), sub...)
	return d.runner.Run(ctx, d.bin, args...)
}

// Install installs the given package specs.
func (d *DNF) Install(ctx context.Context, o InvokeOptions, specs ...string) ([]byte, error) {
	return d.run(ctx, o, append([]string{"install"}, specs...)...)
}

// Remove removes the given package specs.
func (d *DNF) Remove(ctx context.Context, o InvokeOptions, specs ...string) ([]byte, error) {
	return d.run(ctx, o, append([]string{"remove"}, specs...)...)
}

// MakeCache downloads and caches repository metadata.
func (d *DNF) MakeCache(ctx context.Context, o InvokeOptions) ([]byte, error) {
	return d.run(ctx, o, "makecache")
}

// CleanMetadata drops cached repository metadata.
func (d *DNF) CleanMetadata(ctx context.Context, o InvokeOptions) ([]byte, error) {
	return d.run(ctx, o, "clean", "metadata")
}

// Repoquery lists the available packages of one repository.
func (d *DNF) Repoquery(ctx context.Context, o InvokeOptions, repoID string) ([]string, error) {
	o.DisableRepo = "*"
	o.EnableRepo = repoID
	out, err := d.run(ctx, o, "repoquery")
	if err != nil {
		return nil, err
	}
	var packages []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			packages = append(packages, line)
		}
	}
	return packages, nil
}
