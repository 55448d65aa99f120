package scenario

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load parses and validates a suite from r.
func Load(r io.Reader) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}
	if suite.Feature == "" {
		return nil, fmt.Errorf("suite has no feature description")
	}
	if len(suite.Scenarios) == 0 {
		return nil, fmt.Errorf("suite %q has no scenarios", suite.Feature)
	}
	for i := range suite.Scenarios {
		if err := suite.Scenarios[i].validate(); err != nil {
			return nil, err
		}
	}
	return &suite, nil
}

// LoadFile parses and validates the suite file at path.
func LoadFile(fs afero.Fs, path string) (*Suite, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	suite, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}
