// Package scenario defines the declarative acceptance-test scenarios:
// per scenario an ordered command-line option table, a config-file
// option table and the outcomes to assert after running DNF with that
// configuration.
package scenario

import (
	"fmt"
	"strings"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
)

// Suite is one scenario file: a described feature plus its scenarios.
type Suite struct {
	Feature   string     `yaml:"feature"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario describes one DNF invocation and its expected outcomes.
type Scenario struct {
	Name        string   `yaml:"name"`
	CommandLine []Option `yaml:"command_line,omitempty"`
	ConfigFile  []Option `yaml:"config_file,omitempty"`
	Checks      []Check  `yaml:"checks"`
}

// Option is an ordered option/value pair. Command-line option names
// keep their leading dashes.
type Option struct {
	Option string `yaml:"option"`
	Value  string `yaml:"value"`
}

// CheckKind names an expected outcome.
type CheckKind string

const (
	// CheckManageRoot asserts a package installed through the scenario
	// configuration lands in the given root, and only there.
	CheckManageRoot CheckKind = "manage-root"

	// CheckConfigLoaded asserts the expected configuration file is the
	// one DNF actually loads.
	CheckConfigLoaded CheckKind = "config-loaded"

	// CheckReposFromDir asserts .repo files are discovered in the
	// resolved reposdir.
	CheckReposFromDir CheckKind = "repos-from-dir"

	// CheckRepoAvailable asserts the content of a repository at a host
	// path is available through the scenario configuration.
	CheckRepoAvailable CheckKind = "repo-available"

	// CheckPluginsLoaded asserts plugins are loaded from the resolved
	// pluginpath.
	CheckPluginsLoaded CheckKind = "plugins-loaded"

	// CheckPluginConfPath asserts plugin configuration is read from the
	// resolved pluginconfpath.
	CheckPluginConfPath CheckKind = "plugin-conf-path"

	// CheckCached asserts metadata is cached under the given root, and
	// only there.
	CheckCached CheckKind = "cached"

	// CheckLogged asserts events are logged under the given root, and
	// only there.
	CheckLogged CheckKind = "logged"

	// CheckTracked asserts tracking information is stored under the
	// given root, and only there.
	CheckTracked CheckKind = "tracked"

	// CheckReleasever asserts the $releasever substitution resolves to
	// the expected version.
	CheckReleasever CheckKind = "releasever"

	// CheckGPGImported asserts a GPG key ends up in the keyring of the
	// given root.
	CheckGPGImported CheckKind = "gpg-imported"

	// CheckGPGVerified asserts packages are verified using keys from
	// the keyring of the given root.
	CheckGPGVerified CheckKind = "gpg-verified"
)

// Destinations for checks that distinguish where an outcome must land.
const (
	DestinationHost  = "host"
	DestinationGuest = "guest"
)

// Check is one expected outcome of a scenario.
type Check struct {
	Kind CheckKind `yaml:"kind"`

	// Destination is host or guest for checks that assert where an
	// artifact lands. Empty means host.
	Destination string `yaml:"destination,omitempty"`

	// Path parameterizes directory-based checks (repos-from-dir,
	// plugins-loaded, plugin-conf-path, repo-available). Empty means
	// the resolved default.
	Path string `yaml:"path,omitempty"`

	// Value is the expected value for the releasever check. The
	// special values "host" and "guest" ask for the version detected
	// in that root.
	Value string `yaml:"value,omitempty"`

	// Key is the short ID of the GPG key for the gpg-imported check.
	Key string `yaml:"key,omitempty"`
}

var knownChecks = map[CheckKind]bool{
	CheckManageRoot:     true,
	CheckConfigLoaded:   true,
	CheckReposFromDir:   true,
	CheckRepoAvailable:  true,
	CheckPluginsLoaded:  true,
	CheckPluginConfPath: true,
	CheckCached:         true,
	CheckLogged:         true,
	CheckTracked:        true,
	CheckReleasever:     true,
	CheckGPGImported:    true,
	CheckGPGVerified:    true,
}

// cliAliases maps command-line option spellings to setting names where
// they differ.
var cliAliases = map[string]string{
	"config": config.ConfigFilePath,
}

// settingName normalizes a command-line option spelling ("--installroot")
// to the resolver's setting name.
func settingName(option string) string {
	name := strings.TrimLeft(option, "-")
	if alias, ok := cliAliases[name]; ok {
		return alias
	}
	return name
}

// ResolverInputs converts the scenario's option tables into the
// resolver's inputs: a config-file mapping (later table entries win)
// and the ordered command-line option list.
func (s *Scenario) ResolverInputs() (map[string]string, []config.Option, error) {
	configFile := make(map[string]string, len(s.ConfigFile))
	for _, opt := range s.ConfigFile {
		if !config.Known(opt.Option) {
			return nil, nil, &config.UnknownSettingError{Name: opt.Option}
		}
		configFile[opt.Option] = opt.Value
	}

	commandLine := make([]config.Option, 0, len(s.CommandLine))
	for _, opt := range s.CommandLine {
		name := settingName(opt.Option)
		if !config.Known(name) {
			return nil, nil, &config.UnknownSettingError{Name: opt.Option}
		}
		commandLine = append(commandLine, config.Option{Name: name, Value: opt.Value})
	}
	return configFile, commandLine, nil
}

// InstallRoot returns the scenario's effective --installroot value, or
// the empty string when the host root is used.
func (s *Scenario) InstallRoot() string {
	root := ""
	for _, opt := range s.CommandLine {
		if settingName(opt.Option) == config.InstallRoot {
			root = opt.Value
		}
	}
	return root
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("scenario %q has no checks", s.Name)
	}
	if _, _, err := s.ResolverInputs(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	for _, check := range s.Checks {
		if !knownChecks[check.Kind] {
			return fmt.Errorf("scenario %q: unknown check kind %q", s.Name, check.Kind)
		}
		switch check.Destination {
		case "", DestinationHost, DestinationGuest:
		default:
			return fmt.Errorf("scenario %q: unknown destination %q", s.Name, check.Destination)
		}
		if check.Destination == DestinationGuest && s.InstallRoot() == "" {
			return fmt.Errorf("scenario %q: guest destination without --installroot", s.Name)
		}
	}
	return nil
}
