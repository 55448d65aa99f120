package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekholy24/dnf-extra-tests/internal/scenario"
)

// newTestFS builds an in-memory filesystem with the fixture resources
// and host release files in place.
func newTestFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/os-release",
		[]byte("VERSION_ID=42\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/srv/resources/repository/foo-1-1.noarch.rpm",
		[]byte("rpm"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/srv/resources/TEST-GPG-KEY",
		[]byte("key"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/srv/resources/dnf-extra-tests.py",
		[]byte("plugin"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/srv/resources/dnf-extra-tests.conf",
		[]byte("conf"), 0o644))
	return fs
}

func newTestRunner(fs afero.Fs, fake *fakeRunner) *Runner {
	return New(Params{
		Resources: "/srv/resources",
		FS:        fs,
		Runner:    fake,
	})
}

func TestRunSuite_CachedInGuest(t *testing.T) {
	fs := newTestFS(t)

	// Simulated dnf: makecache populates the cache of whichever root
	// the --installroot option names.
	fake := &fakeRunner{}
	fake.handler = func(name string, args []string) ([]byte, error) {
		joined := strings.Join(args, " ")
		if strings.Contains(joined, "makecache") {
			dir := "/var/cache/dnf"
			if i := indexOf(args, "--installroot"); i >= 0 {
				dir = args[i+1] + dir
			}
			if err := afero.WriteFile(fs, dir+"/metadata.solv", []byte("solv"), 0o644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	suite := &scenario.Suite{
		Feature: "Support the --installroot option",
		Scenarios: []scenario.Scenario{{
			Name: "Cache in the guest",
			CommandLine: []scenario.Option{
				{Option: "--installroot", Value: "/tmp/guest"},
				{Option: "--releasever", Value: "19"},
			},
			Checks: []scenario.Check{{Kind: scenario.CheckCached, Destination: scenario.DestinationGuest}},
		}},
	}

	results := newTestRunner(fs, fake).RunSuite(context.Background(), suite)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.True(t, results[0].Passed())
	assert.Equal(t, scenario.CheckCached, results[0].Check)

	// The guest was prepared before the check ran.
	prepared := false
	for _, call := range fake.calls {
		joined := strings.Join(call, " ")
		if strings.Contains(joined, "install system-release") && strings.Contains(joined, "--installroot /tmp/guest") {
			prepared = true
		}
	}
	assert.True(t, prepared, "install root was not prepared")
}

func TestRunSuite_CacheLeaksToHost(t *testing.T) {
	fs := newTestFS(t)

	// Simulated regression: metadata cached in the host although the
	// scenario confines DNF to an install root.
	fake := &fakeRunner{}
	fake.handler = func(name string, args []string) ([]byte, error) {
		if strings.Contains(strings.Join(args, " "), "makecache") {
			for _, dir := range []string{"/var/cache/dnf", "/tmp/guest/var/cache/dnf"} {
				if err := afero.WriteFile(fs, dir+"/metadata.solv", []byte("solv"), 0o644); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	}

	suite := &scenario.Suite{
		Feature: "Support the --installroot option",
		Scenarios: []scenario.Scenario{{
			Name: "Cache in the guest",
			CommandLine: []scenario.Option{
				{Option: "--installroot", Value: "/tmp/guest"},
			},
			Checks: []scenario.Check{{Kind: scenario.CheckCached, Destination: scenario.DestinationGuest}},
		}},
	}

	results := newTestRunner(fs, fake).RunSuite(context.Background(), suite)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "outside the guest")
}

func TestRunSuite_ReposFromConfiguredDir(t *testing.T) {
	fs := newTestFS(t)

	fake := &fakeRunner{}
	fake.handler = func(name string, args []string) ([]byte, error) {
		if strings.Contains(strings.Join(args, " "), "repoquery") {
			// Only answer when the repo definition actually exists in
			// the configured directory.
			exists, err := afero.Exists(fs, "/tmp/dnf-extra-tests/dnf-extra-tests.repo")
			if err != nil || !exists {
				return []byte("Error: Unknown repo: 'dnf-extra-tests'"), assert.AnError
			}
			return []byte("foo-1-1.noarch\n"), nil
		}
		return nil, nil
	}

	suite := &scenario.Suite{
		Feature: "Support the reposdir option",
		Scenarios: []scenario.Scenario{{
			Name: "Loading .repo files from a custom directory",
			ConfigFile: []scenario.Option{
				{Option: "reposdir", Value: "/tmp/dnf-extra-tests"},
			},
			Checks: []scenario.Check{{Kind: scenario.CheckReposFromDir}},
		}},
	}

	results := newTestRunner(fs, fake).RunSuite(context.Background(), suite)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)

	// The scenario's config-file table was written to the default
	// configuration file and cleaned up afterwards.
	exists, err := afero.Exists(fs, "/etc/dnf/dnf.conf")
	require.NoError(t, err)
	assert.False(t, exists, "config file not restored")
}

func TestRunSuite_PreparationFailureFailsEveryCheck(t *testing.T) {
	fs := newTestFS(t)
	fake := &fakeRunner{
		handler: func(string, []string) ([]byte, error) {
			return []byte("Error: no repo providing system-release"), assert.AnError
		},
	}

	suite := &scenario.Suite{
		Feature: "Support the --installroot option",
		Scenarios: []scenario.Scenario{{
			Name: "Broken guest",
			CommandLine: []scenario.Option{
				{Option: "--installroot", Value: "/tmp/guest"},
			},
			Checks: []scenario.Check{
				{Kind: scenario.CheckCached, Destination: scenario.DestinationGuest},
				{Kind: scenario.CheckLogged, Destination: scenario.DestinationGuest},
			},
		}},
	}

	results := newTestRunner(fs, fake).RunSuite(context.Background(), suite)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Error(t, result.Err)
	}
}

func indexOf(args []string, want string) int {
	for i, arg := range args {
		if arg == want {
			return i
		}
	}
	return -1
}
