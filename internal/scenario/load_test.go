package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
)

const sampleSuite = `feature: Support the --installroot option
scenarios:
  - name: Cache in the guest
    command_line:
      - option: --installroot
        value: /tmp/dnf-extra-tests
      - option: --releasever
        value: "19"
    checks:
      - kind: cached
        destination: guest
  - name: Reposdir from the config file
    config_file:
      - option: reposdir
        value: /tmp/dnf-extra-tests
    checks:
      - kind: repos-from-dir
        path: /tmp/dnf-extra-tests
`

func TestLoad(t *testing.T) {
	suite, err := Load(strings.NewReader(sampleSuite))
	require.NoError(t, err)

	assert.Equal(t, "Support the --installroot option", suite.Feature)
	require.Len(t, suite.Scenarios, 2)

	first := suite.Scenarios[0]
	assert.Equal(t, "Cache in the guest", first.Name)
	assert.Equal(t, "/tmp/dnf-extra-tests", first.InstallRoot())
	require.Len(t, first.Checks, 1)
	assert.Equal(t, CheckCached, first.Checks[0].Kind)
	assert.Equal(t, DestinationGuest, first.Checks[0].Destination)

	second := suite.Scenarios[1]
	assert.Empty(t, second.InstallRoot())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "no feature",
			data: "scenarios:\n  - name: x\n    checks:\n      - kind: cached\n",
		},
		{
			name: "no scenarios",
			data: "feature: f\n",
		},
		{
			name: "no checks",
			data: "feature: f\nscenarios:\n  - name: x\n",
		},
		{
			name: "unknown check kind",
			data: "feature: f\nscenarios:\n  - name: x\n    checks:\n      - kind: bogus\n",
		},
		{
			name: "unknown destination",
			data: "feature: f\nscenarios:\n  - name: x\n    checks:\n      - kind: cached\n        destination: elsewhere\n",
		},
		{
			name: "guest destination without installroot",
			data: "feature: f\nscenarios:\n  - name: x\n    checks:\n      - kind: cached\n        destination: guest\n",
		},
		{
			name: "unknown command-line option",
			data: "feature: f\nscenarios:\n  - name: x\n    command_line:\n      - option: --bogus\n        value: v\n    checks:\n      - kind: cached\n",
		},
		{
			name: "unknown config-file option",
			data: "feature: f\nscenarios:\n  - name: x\n    config_file:\n      - option: bogus\n        value: v\n    checks:\n      - kind: cached\n",
		},
		{
			name: "unknown yaml field",
			data: "feature: f\nbogus: true\nscenarios:\n  - name: x\n    checks:\n      - kind: cached\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestResolverInputs(t *testing.T) {
	sc := Scenario{
		Name: "precedence",
		CommandLine: []Option{
			{Option: "--config", Value: "/tmp/dnf.conf"},
			{Option: "--installroot", Value: "/tmp/root"},
			{Option: "--installroot", Value: "/tmp/root2"},
		},
		ConfigFile: []Option{
			{Option: "reposdir", Value: "/tmp/a"},
			{Option: "reposdir", Value: "/tmp/b"},
		},
	}

	configFile, commandLine, err := sc.ResolverInputs()
	require.NoError(t, err)

	// Later config-file entries win within the layer.
	assert.Equal(t, map[string]string{"reposdir": "/tmp/b"}, configFile)

	// --config is the config_file_path setting; order preserved.
	require.Len(t, commandLine, 3)
	assert.Equal(t, config.Option{Name: config.ConfigFilePath, Value: "/tmp/dnf.conf"}, commandLine[0])
	assert.Equal(t, config.Option{Name: config.InstallRoot, Value: "/tmp/root"}, commandLine[1])
	assert.Equal(t, config.Option{Name: config.InstallRoot, Value: "/tmp/root2"}, commandLine[2])

	// The last --installroot is the effective one.
	assert.Equal(t, "/tmp/root2", sc.InstallRoot())
}
