package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds runner settings that do not depend on the target
// environment: which features to run and how to report them.
type Profile struct {
	// Paths lists feature files or directories. Empty means the embedded corpus.
	Paths []string `yaml:"paths"`

	// Tags is a godog tag expression, e.g. "@smoke && ~@wip"
	Tags string `yaml:"tags"`

	// Format is the godog formatter list, e.g. "pretty" or "pretty,cucumber:reports/cucumber.json"
	Format string `yaml:"format"`

	// Strict fails the run on undefined or pending steps
	Strict bool `yaml:"strict"`

	// StopOnFailure stops after the first failed scenario
	StopOnFailure bool `yaml:"stop_on_failure"`

	// Randomize shuffles scenario order with the given seed (-1 picks one)
	Randomize int64 `yaml:"randomize"`

	// NameFilter is a glob matched against scenario names; others are skipped
	NameFilter string `yaml:"name_filter"`

	// ArtifactsDir receives screenshots, DOM snapshots, logs and the run report
	ArtifactsDir string `yaml:"artifacts_dir"`

	// Verbosity is one of quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity"`
}

// DefaultProfile returns the settings used when no profile file is given.
func DefaultProfile() *Profile {
	return &Profile{
		Format:       "pretty",
		Strict:       true,
		ArtifactsDir: "reports",
		Verbosity:    "normal",
	}
}

// LoadProfile reads a YAML profile on top of DefaultProfile. An empty path
// returns the defaults.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return profile, nil
}

// Validate checks the profile and fills empty fields with defaults.
func (p *Profile) Validate() error {
	if p.Format == "" {
		p.Format = "pretty"
	}
	if p.ArtifactsDir == "" {
		p.ArtifactsDir = "reports"
	}
	if p.Verbosity == "" {
		p.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[p.Verbosity] {
		return fmt.Errorf("invalid verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", p.Verbosity)
	}

	if p.Randomize < -1 {
		return fmt.Errorf("randomize must be -1, 0, or a positive seed, got %d", p.Randomize)
	}

	return nil
}
