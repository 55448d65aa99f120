package dnfconf

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	ini "gopkg.in/ini.v1"
)

// mainSection is the section of dnf.conf holding global options.
const mainSection = "main"

// LoadMain reads the [main] section of a dnf.conf-style file into an
// option table suitable as the resolver's config-file layer. A missing
// file is not an error: DNF runs with defaults when no config file is
// present. A present but malformed file fails.
func LoadMain(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	options, err := ParseMain(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return options, nil
}

// ParseMain parses the [main] section of dnf.conf content.
func ParseMain(data []byte) (map[string]string, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	section, err := f.GetSection(mainSection)
	if err != nil {
		return map[string]string{}, nil
	}
	return section.KeysHash(), nil
}

// AppendMain appends a [main] section with the given ordered options to
// a dnf.conf-style file, creating it if necessary. The scenario harness
// uses this to inject a scenario's config-file option table into the
// configuration file DNF will load.
func AppendMain(fs afero.Fs, path string, options [][2]string) error {
	file, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "[%s]\n", mainSection); err != nil {
		return err
	}
	for _, option := range options {
		if _, err := fmt.Fprintf(file, "%s=%s\n", option[0], option[1]); err != nil {
			return err
		}
	}
	return nil
}
