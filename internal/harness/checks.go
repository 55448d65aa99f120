package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
	"github.com/radekholy24/dnf-extra-tests/internal/dnfconf"
	"github.com/radekholy24/dnf-extra-tests/internal/scenario"
)

// Fixture resource names inside the resources directory.
const (
	repoDirName    = "repository"
	gpgKeyFile     = "TEST-GPG-KEY"
	gpgKeyID       = "867B843D"
	testPackage    = "foo"
	testPackageRPM = "foo-1-1.noarch.rpm"
	signedPackage  = "signed-foo"
	pluginFile     = "dnf-extra-tests.py"
	pluginConfFile = "dnf-extra-tests.conf"
	testRepoID     = "dnf-extra-tests"
)

// Markers printed by the test plugin.
const (
	pluginLoadedMarker     = "An output of the dnf-extra-tests plugin: This is unique."
	pluginConfiguredMarker = "dnf-extra-tests plugin's option is configured."
)

// checkEnv carries everything one scenario's checks need: the resolver
// built from the scenario's option tables, the active root context and
// the host context it is compared against.
type checkEnv struct {
	fs        afero.Fs
	dnf       *DNF
	rpm       *RPM
	logger    *zap.Logger
	resources string
	resolver  *config.Resolver
	root      config.RootContext
	host      config.RootContext
	opts      InvokeOptions
}

// destContext maps a check destination to a root context. An empty
// destination means the active root.
func (e *checkEnv) destContext(destination string) config.RootContext {
	switch destination {
	case scenario.DestinationHost:
		return e.host
	case scenario.DestinationGuest:
		return e.root
	}
	return e.root
}

// destRoot maps a check destination to an rpm --root value; empty for
// the host.
func (e *checkEnv) destRoot(destination string) string {
	if destination == scenario.DestinationGuest {
		return e.opts.InstallRoot
	}
	return ""
}

// otherRoot is the opposite of destRoot, for exclusivity assertions.
func (e *checkEnv) otherRoot(destination string) string {
	if destination == scenario.DestinationGuest {
		return ""
	}
	return e.opts.InstallRoot
}

func (e *checkEnv) resolvePath(setting string, root config.RootContext) (string, error) {
	return e.resolver.ResolvePath(setting, root)
}

func (e *checkEnv) repoURL() string {
	return fileURL(filepath.Join(e.resources, repoDirName))
}

func fileURL(path string) string {
	return "file://" + path
}

func (e *checkEnv) run(ctx context.Context, check scenario.Check) error {
	switch check.Kind {
	case scenario.CheckManageRoot:
		return e.checkManageRoot(ctx, check)
	case scenario.CheckConfigLoaded:
		return e.checkConfigLoaded(ctx, check)
	case scenario.CheckReposFromDir:
		return e.checkReposFromDir(ctx, check)
	case scenario.CheckRepoAvailable:
		return e.checkRepoAvailable(ctx, check)
	case scenario.CheckPluginsLoaded:
		return e.checkPlugins(ctx, check, false)
	case scenario.CheckPluginConfPath:
		return e.checkPlugins(ctx, check, true)
	case scenario.CheckCached:
		return e.checkArtifacts(ctx, check, config.CacheDir, e.makeCache)
	case scenario.CheckLogged:
		return e.checkArtifacts(ctx, check, config.LogDir, e.cleanMetadata)
	case scenario.CheckTracked:
		return e.checkArtifacts(ctx, check, config.PersistDir, e.installTestPackage)
	case scenario.CheckReleasever:
		return e.checkReleasever(ctx, check)
	case scenario.CheckGPGImported:
		return e.checkGPGImported(ctx, check)
	case scenario.CheckGPGVerified:
		return e.checkGPGVerified(ctx, check)
	}
	return fmt.Errorf("unknown check kind %q", check.Kind)
}

// withTestRepo writes a repository definition into the resolved
// reposdir of the active root, runs fn and removes the definition
// again.
func (e *checkEnv) withTestRepo(repo dnfconf.Repo, fn func() error) error {
	dir, err := e.resolvePath(config.ReposDir, e.root)
	if err != nil {
		return err
	}
	path, err := repo.WriteRepo(e.fs, dir)
	if err != nil {
		return err
	}
	defer e.fs.Remove(path) //nolint:errcheck // best-effort cleanup
	return fn()
}

// expectTestRepoContent queries the test repository and verifies the
// fixture package is visible through it.
func (e *checkEnv) expectTestRepoContent(ctx context.Context) error {
	packages, err := e.dnf.Repoquery(ctx, e.opts, testRepoID)
	if err != nil {
		return fmt.Errorf("repository %s not queryable: %w", testRepoID, err)
	}
	for _, nevra := range packages {
		if strings.HasPrefix(nevra, testPackage+"-") || nevra == testPackage {
			return nil
		}
	}
	return fmt.Errorf("repository %s does not provide %s", testRepoID, testPackage)
}

// checkManageRoot installs the fixture package and verifies it lands in
// the expected root, and only there.
func (e *checkEnv) checkManageRoot(ctx context.Context, check scenario.Check) error {
	pkg := filepath.Join(e.resources, repoDirName, testPackageRPM)
	if _, err := e.dnf.Install(ctx, e.opts, pkg); err != nil {
		return err
	}
	defer e.dnf.Remove(ctx, e.opts, testPackage) //nolint:errcheck // best-effort cleanup

	if !e.rpm.Installed(ctx, e.destRoot(check.Destination), testPackage) {
		return fmt.Errorf("%s root not managed", destinationLabel(check.Destination))
	}
	if e.opts.InstallRoot != "" && e.rpm.Installed(ctx, e.otherRoot(check.Destination), testPackage) {
		return fmt.Errorf("package managed outside the %s root", destinationLabel(check.Destination))
	}
	return nil
}

// checkConfigLoaded appends the test repository to the configuration
// file DNF is expected to load and verifies the repository becomes
// visible.
func (e *checkEnv) checkConfigLoaded(ctx context.Context, check scenario.Check) error {
	raw := check.Path
	if raw == "" {
		var err error
		if raw, err = e.resolver.Resolve(config.ConfigFilePath); err != nil {
			return err
		}
	}
	target := e.destContext(check.Destination).Rebase(raw)

	repo := dnfconf.Repo{ID: testRepoID, BaseURL: e.repoURL(), Enabled: true}
	section, err := repo.Render()
	if err != nil {
		return err
	}

	restore, err := backupFile(e.fs, target)
	if err != nil {
		return err
	}
	defer restore()

	if err := appendFile(e.fs, target, section); err != nil {
		return err
	}
	return e.expectTestRepoContent(ctx)
}

// checkReposFromDir writes a .repo file into the expected repository
// definition directory and verifies it is discovered.
func (e *checkEnv) checkReposFromDir(ctx context.Context, check scenario.Check) error {
	raw := check.Path
	if raw == "" {
		var err error
		if raw, err = e.resolver.Resolve(config.ReposDir); err != nil {
			return err
		}
	}
	dir := e.destContext(check.Destination).Rebase(raw)

	repo := dnfconf.Repo{ID: testRepoID, BaseURL: e.repoURL(), Enabled: true}
	path, err := repo.WriteRepo(e.fs, dir)
	if err != nil {
		return err
	}
	defer e.fs.Remove(path) //nolint:errcheck // best-effort cleanup

	return e.expectTestRepoContent(ctx)
}

// checkRepoAvailable copies the fixture repository to a host path and
// verifies its content is available through the scenario configuration.
func (e *checkEnv) checkRepoAvailable(ctx context.Context, check scenario.Check) error {
	if check.Path == "" {
		return fmt.Errorf("repo-available check needs a path")
	}
	if err := copyDir(e.fs, filepath.Join(e.resources, repoDirName), check.Path); err != nil {
		return err
	}
	defer e.fs.RemoveAll(check.Path) //nolint:errcheck // best-effort cleanup

	repo := dnfconf.Repo{ID: testRepoID, BaseURL: fileURL(check.Path), Enabled: true}
	return e.withTestRepo(repo, func() error {
		return e.expectTestRepoContent(ctx)
	})
}

// checkPlugins copies the test plugin into the expected plugin path and
// verifies DNF loads it; with conf it also verifies the plugin finds
// its configuration under the expected pluginconfpath.
func (e *checkEnv) checkPlugins(ctx context.Context, check scenario.Check, conf bool) error {
	raw := check.Path
	setting := config.PluginPath
	marker := pluginLoadedMarker
	if conf {
		setting = config.PluginConfPath
		marker = pluginConfiguredMarker
	}
	if raw == "" {
		var err error
		if raw, err = e.resolver.Resolve(setting); err != nil {
			return err
		}
	}
	dir := e.destContext(check.Destination).Rebase(raw)

	cleanupPlugin, err := e.installResource(pluginFile, dir)
	if err != nil {
		return err
	}
	defer cleanupPlugin()

	if conf {
		// The plugin itself still loads from the resolved pluginpath.
		pluginDir, err := e.resolvePath(config.PluginPath, e.root)
		if err != nil {
			return err
		}
		cleanup, err := e.installResource(pluginFile, pluginDir)
		if err != nil {
			return err
		}
		defer cleanup()
		cleanupConf, err := e.installResource(pluginConfFile, dir)
		if err != nil {
			return err
		}
		defer cleanupConf()
	}

	out, err := e.dnf.CleanMetadata(ctx, e.opts)
	if err != nil {
		return err
	}
	if !strings.Contains(string(out), marker) {
		if conf {
			return fmt.Errorf("plugin configuration not read from %s", dir)
		}
		return fmt.Errorf("plugin not loaded from %s", dir)
	}
	return nil
}

// installResource copies a fixture file into dir and returns a cleanup
// function removing it again.
func (e *checkEnv) installResource(name, dir string) (func(), error) {
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(e.fs, filepath.Join(e.resources, name))
	if err != nil {
		return nil, err
	}
	target := filepath.Join(dir, name)
	if err := afero.WriteFile(e.fs, target, data, 0o644); err != nil {
		return nil, err
	}
	return func() { e.fs.Remove(target) }, nil //nolint:errcheck // best-effort cleanup
}

// artifact triggers for the cached/logged/tracked checks.

func (e *checkEnv) makeCache(ctx context.Context) error {
	repo := dnfconf.Repo{ID: testRepoID, BaseURL: e.repoURL(), Enabled: true}
	return e.withTestRepo(repo, func() error {
		_, err := e.dnf.MakeCache(ctx, e.opts)
		return err
	})
}

func (e *checkEnv) cleanMetadata(ctx context.Context) error {
	repo := dnfconf.Repo{ID: testRepoID, BaseURL: e.repoURL(), Enabled: true}
	return e.withTestRepo(repo, func() error {
		if _, err := e.dnf.MakeCache(ctx, e.opts); err != nil {
			return err
		}
		_, err := e.dnf.CleanMetadata(ctx, e.opts)
		return err
	})
}

func (e *checkEnv) installTestPackage(ctx context.Context) error {
	pkg := filepath.Join(e.resources, repoDirName, testPackageRPM)
	if _, err := e.dnf.Install(ctx, e.opts, pkg); err != nil {
		return err
	}
	_, err := e.dnf.Remove(ctx, e.opts, testPackage)
	return err
}

// checkArtifacts clears the artifact directory of a setting under both
// roots, triggers DNF activity and asserts the artifacts land under the
// expected root, and only there.
func (e *checkEnv) checkArtifacts(ctx context.Context, check scenario.Check, setting string, trigger func(context.Context) error) error {
	hostDir, err := e.resolvePath(setting, e.host)
	if err != nil {
		return err
	}
	activeDir, err := e.resolvePath(setting, e.root)
	if err != nil {
		return err
	}

	for _, dir := range []string{hostDir, activeDir} {
		if err := clearDir(e.fs, dir); err != nil {
			return err
		}
	}

	if err := trigger(ctx); err != nil {
		return err
	}

	expectedDir, unexpectedDir := hostDir, activeDir
	if check.Destination == scenario.DestinationGuest {
		expectedDir, unexpectedDir = activeDir, hostDir
	}

	populated, err := dirPopulated(e.fs, expectedDir, setting)
	if err != nil {
		return err
	}
	if !populated {
		return fmt.Errorf("nothing %s in the %s", artifactVerb(check.Kind), destinationLabel(check.Destination))
	}
	if unexpectedDir != expectedDir {
		populated, err := dirPopulated(e.fs, unexpectedDir, setting)
		if err != nil {
			return err
		}
		if populated {
			return fmt.Errorf("something %s outside the %s", artifactVerb(check.Kind), destinationLabel(check.Destination))
		}
	}
	return nil
}

// checkReleasever builds a repository whose baseurl ends in
// $RELEASEVER, backed by a directory named after the expected version,
// and verifies DNF substitutes the variable with exactly that version.
func (e *checkEnv) checkReleasever(ctx context.Context, check scenario.Check) error {
	expected := check.Value
	switch expected {
	case "", scenario.DestinationHost:
		var err error
		if expected, err = config.DetectReleasever(e.host); err != nil {
			return err
		}
	case scenario.DestinationGuest:
		var err error
		if expected, err = config.DetectReleasever(e.root); err != nil {
			return err
		}
	}

	parent, err := afero.TempDir(e.fs, "", "dnf-extra-tests")
	if err != nil {
		return err
	}
	defer e.fs.RemoveAll(parent) //nolint:errcheck // best-effort cleanup
	if err := copyDir(e.fs, filepath.Join(e.resources, repoDirName), filepath.Join(parent, expected)); err != nil {
		return err
	}

	repo := dnfconf.Repo{ID: testRepoID, BaseURL: fileURL(parent) + "/$RELEASEVER", Enabled: true}
	return e.withTestRepo(repo, func() error {
		if err := e.expectTestRepoContent(ctx); err != nil {
			return fmt.Errorf("$RELEASEVER not set to %s: %w", expected, err)
		}
		return nil
	})
}

// checkGPGImported installs a signed package from a gpgcheck-enabled
// repository and verifies the signing key was imported into the keyring
// of the expected root, and only there.
func (e *checkEnv) checkGPGImported(ctx context.Context, check scenario.Check) error {
	keyID := check.Key
	if keyID == "" {
		keyID = gpgKeyID
	}

	repo := dnfconf.Repo{
		ID:       testRepoID,
		BaseURL:  e.repoURL(),
		GPGCheck: true,
		GPGKey:   fileURL(filepath.Join(e.resources, gpgKeyFile)),
		Enabled:  true,
	}
	return e.withTestRepo(repo, func() error {
		if _, err := e.dnf.Install(ctx, e.opts, signedPackage); err != nil {
			return err
		}
		defer e.dnf.Remove(ctx, e.opts, signedPackage) //nolint:errcheck // best-effort cleanup

		dest := e.destRoot(check.Destination)
		if !e.rpm.KeyImported(ctx, dest, keyID) {
			return fmt.Errorf("key %s not imported to the %s", keyID, destinationLabel(check.Destination))
		}
		defer e.rpm.EraseKey(ctx, dest, keyID) //nolint:errcheck // best-effort cleanup

		if e.opts.InstallRoot != "" && e.rpm.KeyImported(ctx, e.otherRoot(check.Destination), keyID) {
			return fmt.Errorf("key %s imported outside the %s", keyID, destinationLabel(check.Destination))
		}
		return nil
	})
}

// checkGPGVerified imports the fixture key into the keyring of the
// expected root and verifies a signed package installs from a
// gpgcheck-enabled repository using that keyring.
func (e *checkEnv) checkGPGVerified(ctx context.Context, check scenario.Check) error {
	dest := e.destRoot(check.Destination)
	if err := e.rpm.ImportKey(ctx, dest, filepath.Join(e.resources, gpgKeyFile)); err != nil {
		return err
	}
	defer e.rpm.EraseKey(ctx, dest, gpgKeyID) //nolint:errcheck // best-effort cleanup

	repo := dnfconf.Repo{ID: testRepoID, BaseURL: e.repoURL(), GPGCheck: true, Enabled: true}
	return e.withTestRepo(repo, func() error {
		if _, err := e.dnf.Install(ctx, e.opts, signedPackage); err != nil {
			return fmt.Errorf("signed package not verified using the %s keys: %w",
				destinationLabel(check.Destination), err)
		}
		_, err := e.dnf.Remove(ctx, e.opts, signedPackage)
		return err
	})
}

func destinationLabel(destination string) string {
	if destination == scenario.DestinationGuest {
		return "guest"
	}
	return "host"
}

func artifactVerb(kind scenario.CheckKind) string {
	switch kind {
	case scenario.CheckCached:
		return "cached"
	case scenario.CheckLogged:
		return "logged"
	case scenario.CheckTracked:
		return "stored"
	}
	return "produced"
}
