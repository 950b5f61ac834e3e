// Package config loads mergeplan settings from defaults, an optional YAML
// file, .env files, MERGEPLAN_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dsablic/mergeplan/internal/errs"
)

// Config holds all configuration settings
type Config struct {
	Concurrency  int             `mapstructure:"concurrency" yaml:"concurrency"`
	QueryTimeout time.Duration   `mapstructure:"query_timeout" yaml:"query_timeout"`
	Baseline     BaselineConfig  `mapstructure:"baseline" yaml:"baseline"`
	Hotspots     HotspotsConfig  `mapstructure:"hotspots" yaml:"hotspots"`
	Output       OutputConfig    `mapstructure:"output" yaml:"output"`
	Log          LogConfig       `mapstructure:"log" yaml:"log"`
	Narrative    NarrativeConfig `mapstructure:"narrative" yaml:"narrative"`
	Clone        CloneConfig     `mapstructure:"clone" yaml:"clone"`
}

type BaselineConfig struct {
	Policy string `mapstructure:"policy" yaml:"policy"` // "first" or "named"
	Branch string `mapstructure:"branch" yaml:"branch"`
}

type HotspotsConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"` // 0 reports every hotspot
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "json", "yaml", "markdown"
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

type NarrativeConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type CloneConfig struct {
	Token string `mapstructure:"token" yaml:"token"` // HTTP basic-auth password for remote --repo URLs
}

// Formats lists the accepted output formats.
var Formats = []string{"json", "yaml", "markdown"}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Concurrency:  8,
		QueryTimeout: 30 * time.Second,
		Baseline:     BaselineConfig{Policy: "first"},
		Output:       OutputConfig{Format: "json"},
		Log:          LogConfig{Level: "info", Format: "text"},
		Narrative:    NarrativeConfig{Timeout: 5 * time.Minute},
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"concurrency":     "concurrency",
	"timeout":         "query_timeout",
	"baseline-policy": "baseline.policy",
	"baseline":        "baseline.branch",
	"hotspot-limit":   "hotspots.limit",
	"format":          "output.format",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config file. When empty, .mergeplan.yaml is
	// searched for in the working directory, SearchPaths and
	// ~/.config/mergeplan.
	File        string
	SearchPaths []string
	// Flags, when set, override every other source for flags the user changed.
	Flags *pflag.FlagSet
}

// Load builds the effective configuration.
func Load(opts Options) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("query_timeout", cfg.QueryTimeout)
	v.SetDefault("baseline.policy", cfg.Baseline.Policy)
	v.SetDefault("baseline.branch", cfg.Baseline.Branch)
	v.SetDefault("hotspots.limit", cfg.Hotspots.Limit)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("narrative.timeout", cfg.Narrative.Timeout)
	v.SetDefault("clone.token", cfg.Clone.Token)

	v.SetEnvPrefix("MERGEPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag --%s", name)
				}
			}
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(".mergeplan")
		v.AddConfigPath(".")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "mergeplan"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, errs.InvalidInput("read config: %v", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.InvalidInput("decode config: %v", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.Baseline.Policy = strings.ToLower(strings.TrimSpace(cfg.Baseline.Policy))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return errs.InvalidInput("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.QueryTimeout <= 0 {
		return errs.InvalidInput("query_timeout must be positive, got %s", c.QueryTimeout)
	}
	if c.Hotspots.Limit < 0 {
		return errs.InvalidInput("hotspots.limit must not be negative, got %d", c.Hotspots.Limit)
	}
	switch c.Baseline.Policy {
	case "first":
	case "named":
		if c.Baseline.Branch == "" {
			return errs.InvalidInput("baseline.policy named requires baseline.branch")
		}
	default:
		return errs.InvalidInput("unknown baseline.policy %q (want first or named)", c.Baseline.Policy)
	}
	for _, f := range Formats {
		if c.Output.Format == f {
			return nil
		}
	}
	return errs.InvalidInput("unknown output format %q (want %s)", c.Output.Format, strings.Join(Formats, ", "))
}

// loadEnvFiles loads .env files in order of precedence. Variables already
// set in the environment are never replaced.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}
	homeEnvFile := filepath.Join(homeDir, ".config", "mergeplan", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}
