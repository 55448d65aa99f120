package cli

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = ".dnf-extra-tests.yaml"

// AppConfig holds settings read from .dnf-extra-tests.yaml. Flags
// override anything set here.
type AppConfig struct {
	DNFBin    string `yaml:"dnf_bin,omitempty"`
	RPMBin    string `yaml:"rpm_bin,omitempty"`
	Resources string `yaml:"resources,omitempty"`
	Features  string `yaml:"features,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	NoColor   bool   `yaml:"no_color"`
}

// LoadAppConfig reads the configuration file if one exists. A missing
// file is not an error; the zero config is returned.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	path := appConfigPath()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// appConfigPath looks for the config file in the working directory
// first, then under the user config directory.
func appConfigPath() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "dnf-extra-tests", configFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
