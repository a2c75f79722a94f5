// Package config provides configuration management for grammarsync using
// Viper for flexible configuration loading from files, environment variables,
// and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the GRAMMARSYNC_ prefix. It manages the registry file
// location, the two output directories, the packaging-metadata file, and the
// raw-content host.
package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Git      GitConfig      `yaml:"git" mapstructure:"git"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type OutputConfig struct {
	LicensesDir  string `yaml:"licenses_dir" mapstructure:"licenses_dir"`
	GrammarsDir  string `yaml:"grammars_dir" mapstructure:"grammars_dir"`
	ManifestPath string `yaml:"manifest_path" mapstructure:"manifest_path"`
}

type FetchConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
}

type GitConfig struct {
	// Binary is the git executable invoked for all history queries.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// CloneHost is the base URL cloned from, joined with the source name.
	CloneHost string `yaml:"clone_host" mapstructure:"clone_host"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Registry.Path == "" {
		config.Registry.Path = "grammars.yml"
	}
	if config.Output.LicensesDir == "" {
		config.Output.LicensesDir = "licenses"
	}
	if config.Output.GrammarsDir == "" {
		config.Output.GrammarsDir = "grammars"
	}
	if config.Output.ManifestPath == "" {
		config.Output.ManifestPath = "package.yml"
	}
	if config.Fetch.Host == "" {
		config.Fetch.Host = "raw.githubusercontent.com"
	}
	if config.Git.Binary == "" {
		config.Git.Binary = "git"
	}
	if config.Git.CloneHost == "" {
		config.Git.CloneHost = "https://github.com"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}
