// Package config loads the settings of a test run from a YAML file, the environment and the
// command line, and can watch the file for changes.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/restful-objects/objects-contract-tests/servicedef"
)

const (
	// DefaultPath is read if it exists when no config file is named explicitly.
	DefaultPath = "objects-tests.yaml"

	// EnvBaseURL overrides the baseUrl setting of the file.
	EnvBaseURL = "OBJECTS_BASE_URL"

	DefaultBaseURL = "https://api.restful-api.dev"
)

type Messages struct {
	Deleted  string `yaml:"deleted"`
	NotFound string `yaml:"notFound"`
}

// Config holds every setting of a test run. Durations use Go syntax, such as "30s".
type Config struct {
	BaseURL        string        `yaml:"baseUrl"`
	Timeout        time.Duration `yaml:"timeout"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	RecentWindow   time.Duration `yaml:"recentWindow"`
	StrictNotFound bool          `yaml:"strictNotFound"`
	Parallel       bool          `yaml:"parallel"`
	Messages       Messages      `yaml:"messages"`
}

func Default() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      time.Second * 30,
		RecentWindow: time.Second * 60,
		Messages: Messages{
			Deleted:  servicedef.DefaultDeletedMessage,
			NotFound: servicedef.DefaultNotFoundMessage,
		},
	}
}

// Load reads a config file over the defaults. A missing file is only an error if required is
// true; otherwise the defaults are returned.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// YAML overwrites only the fields it sets
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides. lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("baseUrl is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("baseUrl must be an absolute http or https URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("connectTimeout cannot be negative, got %s", c.ConnectTimeout)
	}
	if c.RecentWindow <= 0 {
		return fmt.Errorf("recentWindow must be positive, got %s", c.RecentWindow)
	}
	if c.Messages.Deleted == "" || c.Messages.NotFound == "" {
		return errors.New("messages.deleted and messages.notFound cannot be empty")
	}
	return nil
}
