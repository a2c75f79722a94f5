package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// validateConfig checks the loaded configuration for values that would make a
// run misbehave: empty locations, paths escaping the working directory, and
// unsupported logging settings.
func validateConfig(config *Config) error {
	pathFields := map[string]string{
		"registry.path":        config.Registry.Path,
		"output.licenses_dir":  config.Output.LicensesDir,
		"output.grammars_dir":  config.Output.GrammarsDir,
		"output.manifest_path": config.Output.ManifestPath,
	}

	for field, value := range pathFields {
		if value == "" {
			return &ValidationError{
				Field:   field,
				Value:   value,
				Message: "path must not be empty",
			}
		}
		if !isValidOutputPath(value) {
			return &ValidationError{
				Field:   field,
				Value:   value,
				Message: "path must stay inside the working directory",
				Suggestions: []string{
					"use a relative path without .. segments",
				},
			}
		}
	}

	if config.Fetch.Host == "" || strings.ContainsAny(config.Fetch.Host, " /\t") {
		return &ValidationError{
			Field:   "fetch.host",
			Value:   config.Fetch.Host,
			Message: "host must be a bare hostname",
			Suggestions: []string{
				"raw.githubusercontent.com is the default",
			},
		}
	}

	if !strings.HasPrefix(config.Git.CloneHost, "https://") {
		return &ValidationError{
			Field:   "git.clone_host",
			Value:   config.Git.CloneHost,
			Message: "clone host must be an https:// base URL",
		}
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{
			Field:   "logging.level",
			Value:   config.Logging.Level,
			Message: "level must be one of debug, info, warn, error",
		}
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{
			Field:   "logging.format",
			Value:   config.Logging.Format,
			Message: "format must be text or json",
		}
	}

	return nil
}

// isValidOutputPath rejects absolute paths and any path that resolves outside
// the working directory.
func isValidOutputPath(path string) bool {
	if filepath.IsAbs(path) {
		return false
	}

	clean := filepath.Clean(path)

	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
