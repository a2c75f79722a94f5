// Package registry manages the tracked-source records: the upstream
// repositories whose grammar and license files are vendored, and the commit
// each one is pinned to.
//
// The registry is a YAML file loaded at startup and rewritten in place
// whenever the update flow advances a pin. All fields except the pin are
// operator-authored; the pin changes only through an accepted-update decision.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
)

// VersionLatest is the sentinel pin meaning "always track the newest commit".
const VersionLatest = "latest"

// TrackedSource is one registry entry: a single upstream repository and the
// set of files vendored from it.
type TrackedSource struct {
	// Name is the globally unique "owner/repo" key.
	Name string `yaml:"name"`
	// Version is the pinned commit reference, or VersionLatest.
	Version string `yaml:"version"`
	// LicensePath is a repo-relative path, optionally suffixed with a
	// "#Fragment" naming a heading inside the file.
	LicensePath string `yaml:"license"`
	// GrammarPaths are repo-relative grammar file paths. Never empty,
	// deduplicated on load, order kept.
	GrammarPaths []string `yaml:"grammars"`
	// TodoRef is an optional pointer to unresolved upstream work.
	TodoRef string `yaml:"todo,omitempty"`
}

// LicenseFile returns the license path without any fragment suffix.
func (s TrackedSource) LicenseFile() string {
	path, _, _ := strings.Cut(s.LicensePath, "#")

	return path
}

// LicenseFragment returns the fragment naming a license subsection, or "".
func (s TrackedSource) LicenseFragment() string {
	_, fragment, _ := strings.Cut(s.LicensePath, "#")

	return fragment
}

// TracksLatest reports whether the source uses the sentinel pin.
func (s TrackedSource) TracksLatest() bool {
	return s.Version == VersionLatest
}

// FetchRef returns the ref raw content is requested at. The sentinel pin is
// not a commit; raw-content hosts resolve HEAD to the default branch tip.
func (s TrackedSource) FetchRef() string {
	if s.TracksLatest() {
		return "HEAD"
	}

	return s.Version
}

type registryFile struct {
	Sources []TrackedSource `yaml:"sources"`
}

// Load reads and validates the registry file.
func Load(path string) ([]TrackedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}

	if err := validate(file.Sources); err != nil {
		return nil, err
	}

	for i := range file.Sources {
		file.Sources[i].GrammarPaths = dedup(file.Sources[i].GrammarPaths)
	}

	return file.Sources, nil
}

// Find returns the source with the given name.
func Find(sources []TrackedSource, name string) (TrackedSource, error) {
	for _, source := range sources {
		if source.Name == name {
			return source, nil
		}
	}

	return TrackedSource{}, syncerrors.NewUnknownSource(name)
}

func validate(sources []TrackedSource) error {
	if len(sources) == 0 {
		return syncerrors.NewInvalidRegistry("registry has no sources")
	}

	seen := make(map[string]bool, len(sources))
	for _, source := range sources {
		switch {
		case source.Name == "" || !strings.Contains(source.Name, "/"):
			return syncerrors.NewInvalidRegistry(
				fmt.Sprintf("source name %q is not an owner/repo pair", source.Name))
		case seen[source.Name]:
			return syncerrors.NewInvalidRegistry(
				fmt.Sprintf("duplicate source %q", source.Name))
		case source.Version == "":
			return syncerrors.NewInvalidRegistry(
				fmt.Sprintf("source %q has no pinned version", source.Name))
		case source.LicenseFile() == "":
			return syncerrors.NewInvalidRegistry(
				fmt.Sprintf("source %q has no license path", source.Name))
		case len(source.GrammarPaths) == 0:
			return syncerrors.NewInvalidRegistry(
				fmt.Sprintf("source %q has no grammar paths", source.Name))
		}
		seen[source.Name] = true
	}

	return nil
}

func dedup(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	return out
}

// Equal reports whether two registries match in every field, entry for entry.
func Equal(a, b []TrackedSource) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name ||
			a[i].Version != b[i].Version ||
			a[i].LicensePath != b[i].LicensePath ||
			a[i].TodoRef != b[i].TodoRef {
			return false
		}
		if len(a[i].GrammarPaths) != len(b[i].GrammarPaths) {
			return false
		}
		for j := range a[i].GrammarPaths {
			if a[i].GrammarPaths[j] != b[i].GrammarPaths[j] {
				return false
			}
		}
	}

	return true
}
