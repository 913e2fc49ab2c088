// Package config loads botls settings from YAML.
//
// The file is looked up in order: $BOTLS_CONFIG, .botls.yaml in the
// workspace root, ~/.botls.yaml. A missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/torland/botls/dialect"
)

const (
	EnvPath  = "BOTLS_CONFIG"
	FileName = ".botls.yaml"

	defaultPoll = time.Second
)

type Config struct {
	// Extensions maps a file extension such as ".asm" to a dialect name.
	// Entries take precedence over the builtin extensions.
	Extensions map[string]string `yaml:"extensions"`
	// Verbosity is the commonlog verbosity of the language server.
	Verbosity int    `yaml:"verbosity"`
	LogFile   string `yaml:"logFile"`
	// Poll is the file watcher interval, e.g. "500ms".
	Poll string `yaml:"poll"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`

	extensions map[string]*dialect.Dialect
	poll       time.Duration
}

func Default() *Config {
	return &Config{poll: defaultPoll}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	c.extensions = make(map[string]*dialect.Dialect, len(c.Extensions))
	for ext, name := range c.Extensions {
		d, err := dialect.Lookup(name)
		if err != nil {
			return fmt.Errorf("extension %s: %w", ext, err)
		}
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extensions[ext] = d
	}

	c.poll = defaultPoll
	if c.Poll != "" {
		d, err := time.ParseDuration(c.Poll)
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("poll: must be positive, got %s", c.Poll)
		}
		c.poll = d
	}
	return nil
}

// Find locates the config file for a workspace.
func Find(rootDir string) (string, bool) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, true
	}
	candidates := []string{filepath.Join(rootDir, FileName)}
	if home, err := homedir.Dir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// ForWorkspace loads the config that applies to rootDir, or the defaults
// when there is none.
func ForWorkspace(rootDir string) (*Config, error) {
	path, ok := Find(rootDir)
	if !ok {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// DialectFor picks the dialect for path, preferring configured extensions
// over the builtin ones.
func (c *Config) DialectFor(path string) (*dialect.Dialect, bool) {
	if d, ok := c.extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return d, true
	}
	return dialect.ForPath(path)
}

// PollInterval is the file watcher interval.
func (c *Config) PollInterval() time.Duration {
	if c.poll <= 0 {
		return defaultPoll
	}
	return c.poll
}
