package harness

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
	"github.com/radekholy24/dnf-extra-tests/internal/dnfconf"
	"github.com/radekholy24/dnf-extra-tests/internal/scenario"
)

// guestReleasever is the release version the fixture guest systems are
// prepared with when a scenario does not pass --releasever.
const guestReleasever = "19"

// Params configure a Runner. Zero values fall back to the host
// defaults: the system dnf/rpm executables, the OS filesystem and a nop
// logger.
type Params struct {
	DNFBin    string
	RPMBin    string
	Resources string
	FS        afero.Fs
	Runner    CommandRunner
	Logger    *zap.Logger
}

// Runner executes scenario suites against a DNF installation.
type Runner struct {
	fs        afero.Fs
	dnf       *DNF
	rpm       *RPM
	logger    *zap.Logger
	resources string
}

// New builds a Runner.
func New(p Params) *Runner {
	if p.FS == nil {
		p.FS = afero.NewOsFs()
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Runner == nil {
		p.Runner = NewExecRunner(p.Logger)
	}
	return &Runner{
		fs:        p.FS,
		dnf:       NewDNF(p.DNFBin, p.Runner),
		rpm:       NewRPM(p.RPMBin, p.Runner),
		logger:    p.Logger,
		resources: p.Resources,
	}
}

// Result is the outcome of one scenario check.
type Result struct {
	Feature  string
	Scenario string
	Check    scenario.CheckKind
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// RunSuite executes every scenario of a suite and returns one result
// per check.
func (r *Runner) RunSuite(ctx context.Context, suite *scenario.Suite) []Result {
	var results []Result
	for i := range suite.Scenarios {
		sc := &suite.Scenarios[i]
		r.logger.Info("running scenario",
			zap.String("feature", suite.Feature),
			zap.String("scenario", sc.Name))
		results = append(results, r.runScenario(ctx, suite.Feature, sc)...)
	}
	return results
}

// runScenario prepares the scenario's configuration and evaluates its
// checks. A preparation failure fails every check of the scenario; the
// configuration the checks would run under is unknown.
func (r *Runner) runScenario(ctx context.Context, feature string, sc *scenario.Scenario) []Result {
	env, cleanup, err := r.prepare(ctx, sc)
	if err != nil {
		results := make([]Result, 0, len(sc.Checks))
		for _, check := range sc.Checks {
			results = append(results, Result{Feature: feature, Scenario: sc.Name, Check: check.Kind, Err: err})
		}
		return results
	}
	defer cleanup()

	results := make([]Result, 0, len(sc.Checks))
	for _, check := range sc.Checks {
		start := time.Now()
		err := env.run(ctx, check)
		if err != nil {
			r.logger.Warn("check failed",
				zap.String("scenario", sc.Name),
				zap.String("check", string(check.Kind)),
				zap.Error(err))
		}
		results = append(results, Result{
			Feature:  feature,
			Scenario: sc.Name,
			Check:    check.Kind,
			Err:      err,
			Duration: time.Since(start),
		})
	}
	return results
}

// prepare builds the scenario's resolver and root context, prepares a
// guest system when --installroot is used, and writes the scenario's
// config-file option table to the configuration file DNF will load.
func (r *Runner) prepare(ctx context.Context, sc *scenario.Scenario) (*checkEnv, func(), error) {
	configTable, commandLine, err := sc.ResolverInputs()
	if err != nil {
		return nil, nil, err
	}
	resolver, err := config.NewResolver(configTable, commandLine)
	if err != nil {
		return nil, nil, err
	}

	opts := invokeOptionsFrom(sc)
	if opts.InstallRoot != "" {
		if err := r.prepareRoot(ctx, opts); err != nil {
			return nil, nil, err
		}
	}

	root, err := config.NewRootContext(r.fs, resolver)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if len(sc.ConfigFile) > 0 {
		target, err := resolver.ResolvePath(config.ConfigFilePath, root)
		if err != nil {
			return nil, nil, err
		}
		restore, err := backupFile(r.fs, target)
		if err != nil {
			return nil, nil, err
		}
		options := make([][2]string, 0, len(sc.ConfigFile))
		for _, opt := range sc.ConfigFile {
			options = append(options, [2]string{opt.Option, opt.Value})
		}
		if err := dnfconf.AppendMain(r.fs, target, options); err != nil {
			restore()
			return nil, nil, err
		}
		cleanup = restore
	}

	env := &checkEnv{
		fs:        r.fs,
		dnf:       r.dnf,
		rpm:       r.rpm,
		logger:    r.logger,
		resources: r.resources,
		resolver:  resolver,
		root:      root,
		host:      config.HostRoot(r.fs),
		opts:      opts,
	}
	return env, cleanup, nil
}

// prepareRoot bootstraps a guest system under the install root so the
// root context has a release version and an RPM database to work with.
func (r *Runner) prepareRoot(ctx context.Context, opts InvokeOptions) error {
	if err := r.fs.MkdirAll(opts.InstallRoot, 0o755); err != nil {
		return err
	}
	if opts.ReleaseVer == "" {
		opts.ReleaseVer = guestReleasever
	}
	_, err := r.dnf.Install(ctx, opts, "system-release")
	return err
}
