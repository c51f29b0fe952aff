package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace config file, looked up in the workspace root.
const FileName = "protool.yaml"

var ErrReadConfig = errors.New("read config")

// Config holds workspace preferences.
type Config struct {
	// ProjectsRoot overrides workspace discovery when set.
	ProjectsRoot string `yaml:"projectsRoot,omitempty"`
	// Template is the name of the template project cloned by "project new".
	Template string `yaml:"template,omitempty"`
	// DatePrefix controls whether new project names get a date prefix.
	DatePrefix *bool `yaml:"datePrefix,omitempty"`
	// Folders are created inside every new project folder.
	Folders []string `yaml:"folders,omitempty"`
	// ExtraConnections are added to every new project's folder connections.
	ExtraConnections []string `yaml:"extraConnections,omitempty"`
	// LaunchCommand opens a project file when "project new --open" is used.
	// The project path is appended as the final argument.
	LaunchCommand []string `yaml:"launchCommand,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	datePrefix := true
	return Config{
		Template:   "_BaseTemplate",
		DatePrefix: &datePrefix,
		Folders:    []string{},
	}
}

// Load reads a config file and fills unset fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %q: %w", ErrReadConfig, path, err)
	}
	return cfg, nil
}

// LoadWorkspace loads the config file from a workspace root, falling back
// to Default when the file does not exist.
func LoadWorkspace(root string) (Config, error) {
	path := filepath.Join(root, FileName)
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UseDatePrefix resolves the DatePrefix pointer.
func (c Config) UseDatePrefix() bool {
	if c.DatePrefix == nil {
		return true
	}
	return *c.DatePrefix
}
