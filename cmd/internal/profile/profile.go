// Package profile loads the optional client profile file shared by the
// sealdrop commands.
//
// A profile is loaded from a single file named by the --config flag or the
// SEALDROP_CONFIG environment variable. There are no search paths and no
// merging of multiple files, so what a command uses is exactly what one file
// says. Flags given on the command line always win over profile values.
package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config flag is
// given.
const EnvVar = "SEALDROP_CONFIG"

// Render selects how fetched content is presented.
type Render string

const (
	// RenderAuto picks the presentation from the content itself.
	RenderAuto Render = "auto"
	// RenderPlain writes plaintext to stdout regardless of content kind.
	RenderPlain Render = "plain"
	// RenderScreen always uses the full screen viewer.
	RenderScreen Render = "screen"
)

// Profile holds the persistent settings of the sealdrop commands.
type Profile struct {
	// BaseURL is the location blobs are published under.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds one fetch, in time.ParseDuration format like "30s".
	Timeout string `yaml:"timeout"`
	// Render selects the presentation mode: auto, plain, or screen.
	Render Render `yaml:"render"`
	// CheckParams verifies the published parameter descriptor before a run.
	CheckParams bool `yaml:"check_params"`
}

// Default returns the profile used when no file is configured.
func Default() *Profile {
	return &Profile{
		Render: RenderAuto,
	}
}

// Load resolves the profile for a command. An explicit path wins over the
// SEALDROP_CONFIG environment variable, and when neither is set the default
// profile is returned without touching the filesystem.
func Load(path string) (*Profile, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads a profile from one specific file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	prof := Default()
	if err := yaml.Unmarshal(data, prof); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := prof.validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return prof, nil
}

// FetchTimeout parses the Timeout field, returning fallback when the profile
// doesn't set one.
func (p *Profile) FetchTimeout(fallback time.Duration) (time.Duration, error) {
	if p.Timeout == "" {
		return fallback, nil
	}
	timeout, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
	}
	return timeout, nil
}

func (p *Profile) validate() error {
	switch p.Render {
	case RenderAuto, RenderPlain, RenderScreen:
	default:
		return fmt.Errorf("invalid render mode %q: must be auto, plain, or screen", p.Render)
	}
	if _, err := p.FetchTimeout(0); err != nil {
		return err
	}
	return nil
}
