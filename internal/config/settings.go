package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the optional per-project tool settings file.
const SettingsFileName = ".relprep.yaml"

// Settings holds optional per-project defaults for the CLI. A missing
// settings file yields the zero value; explicit command-line flags always
// win over settings.
type Settings struct {
	// Tag is the default prerelease tag for the release branch
	// (equivalent to --tag).
	Tag string `yaml:"tag,omitempty"`

	// NextVersion is the default next development version override
	// (equivalent to --next-version).
	NextVersion string `yaml:"nextVersion,omitempty"`

	// Increment overrides the policy's version increment
	// (equivalent to --increment; major, minor or build).
	Increment string `yaml:"increment,omitempty"`

	// JSON selects structured output by default (equivalent to --json).
	JSON bool `yaml:"json,omitempty"`
}

// LoadSettings reads .relprep.yaml from the project directory. A missing
// file is not an error; a malformed one is.
func LoadSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &s, nil
}
