// Package config holds server settings and the layered credential
// resolution used by the login path. Credentials resolve argument over
// environment over default, and every resolved field remembers which layer
// satisfied it so failures can name exactly what is missing and where it
// was looked for.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional server configuration file.
type Config struct {
	// Monitor is the listen address for the health/metrics HTTP server.
	// Empty disables the server. Loopback by default when enabled via CLI.
	Monitor string `yaml:"monitor"`

	// ScreenshotDir is where captures land when the caller gives no path.
	ScreenshotDir string `yaml:"screenshot_dir"`

	// ExportDir is where grid exports land when the caller gives no path.
	ExportDir string `yaml:"export_dir"`

	// LauncherPath overrides the SAP Logon executable search.
	LauncherPath string `yaml:"launcher_path"`

	// LaunchWait bounds how long to wait for SAP Logon to come up.
	LaunchWait time.Duration `yaml:"launch_wait"`
}

// UnmarshalYAML decodes the file on top of whatever is already set, so
// Load can start from Defaults. LaunchWait accepts duration strings like
// "30s"; yaml.v3 cannot decode those into time.Duration on its own.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Monitor       string `yaml:"monitor"`
		ScreenshotDir string `yaml:"screenshot_dir"`
		ExportDir     string `yaml:"export_dir"`
		LauncherPath  string `yaml:"launcher_path"`
		LaunchWait    string `yaml:"launch_wait"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Monitor != "" {
		c.Monitor = raw.Monitor
	}
	if raw.ScreenshotDir != "" {
		c.ScreenshotDir = raw.ScreenshotDir
	}
	if raw.ExportDir != "" {
		c.ExportDir = raw.ExportDir
	}
	if raw.LauncherPath != "" {
		c.LauncherPath = raw.LauncherPath
	}
	if raw.LaunchWait != "" {
		wait, err := time.ParseDuration(raw.LaunchWait)
		if err != nil {
			return fmt.Errorf("launch_wait: %w", err)
		}
		c.LaunchWait = wait
	}
	return nil
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		ScreenshotDir: "screenshots",
		ExportDir:     "exports",
		LaunchWait:    30 * time.Second,
	}
}

// envPattern matches ${VAR} and ${VAR:-default} expressions.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads a YAML configuration file, expands environment variables, and
// fills unset fields from Defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := expandEnv(raw)
	if err != nil {
		return nil, fmt.Errorf("config: expanding variables in %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.LaunchWait <= 0 {
		cfg.LaunchWait = Defaults().LaunchWait
	}
	return cfg, nil
}

// expandEnv replaces ${VAR} and ${VAR:-default} patterns in raw YAML bytes.
// Returns an error listing all unresolved variables (no default, no env
// value).
func expandEnv(raw []byte) ([]byte, error) {
	var errs []error

	result := envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		subs := envPattern.FindSubmatch(match)
		name := string(subs[1])
		hasDefault := len(subs) > 2 && subs[2] != nil
		defaultVal := ""
		if hasDefault {
			defaultVal = string(subs[2])
		}

		value, ok := os.LookupEnv(name)
		if ok {
			return []byte(value)
		}

		if hasDefault {
			return []byte(defaultVal)
		}

		errs = append(errs, fmt.Errorf("unresolved variable: %s", name))
		return match
	})

	return result, errors.Join(errs...)
}
