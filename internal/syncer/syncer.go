// Package syncer drives the download flow: it materializes the licenses and
// grammars directories from the registry's pinned commits, regenerates the
// derived JavaScript grammar variants, garbage-collects stale artifacts, and
// rewrites the packaging metadata.
//
// The flow is sequential and fail-fast. Any fetch, parse, or identity failure
// aborts the run; files already written by earlier sources stay in place.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
	"github.com/conneroisu/grammarsync/internal/grammar"
	"github.com/conneroisu/grammarsync/internal/logging"
	"github.com/conneroisu/grammarsync/internal/registry"
)

// baseScopeName identifies the TypeScriptReact base grammar that the derived
// JavaScript variants are regenerated from on every run.
const baseScopeName = "source.tsx"

// Fetcher retrieves raw repository content at a pinned ref.
type Fetcher interface {
	Fetch(ctx context.Context, name, ref, path string) ([]byte, error)
	RawURL(name, ref, path string) string
}

// Dirs holds the output locations of one run.
type Dirs struct {
	Licenses string
	Grammars string
	Manifest string
}

// Syncer materializes registry state into the output directories.
type Syncer struct {
	fetcher Fetcher
	dirs    Dirs
	logger  logging.Logger
}

// New returns a Syncer writing into the given output locations.
func New(fetcher Fetcher, dirs Dirs, logger logging.Logger) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		dirs:    dirs,
		logger:  logger.WithComponent("syncer"),
	}
}

// outputSet tracks the filenames the current run intends to exist in each
// output directory, recomputed fully on each unfiltered run.
type outputSet struct {
	licenses map[string]bool
	grammars map[string]bool
}

// Run executes the download flow for every registry source, or for the one
// source named by filter.
func (s *Syncer) Run(ctx context.Context, sources []registry.TrackedSource, filter string) error {
	selected := sources
	if filter != "" {
		source, err := registry.Find(sources, filter)
		if err != nil {
			return err
		}
		selected = []registry.TrackedSource{source}
	}

	for _, dir := range []string{s.dirs.Licenses, s.dirs.Grammars} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	set := outputSet{
		licenses: make(map[string]bool),
		grammars: make(map[string]bool),
	}

	syncedBase := false
	for _, source := range selected {
		wroteBase, err := s.syncSource(ctx, source, &set)
		if err != nil {
			return err
		}
		syncedBase = syncedBase || wroteBase
	}

	if filter == "" || syncedBase {
		if err := s.writeDerivedVariants(ctx, &set); err != nil {
			return err
		}
	}

	if filter == "" {
		if err := collectGarbage(s.dirs.Licenses, set.licenses); err != nil {
			return err
		}
		if err := collectGarbage(s.dirs.Grammars, set.grammars); err != nil {
			return err
		}
	} else {
		// A filtered run deletes nothing; the manifest reflects what is
		// actually on disk.
		var err error
		if set.licenses, err = readDir(s.dirs.Licenses); err != nil {
			return err
		}
		if set.grammars, err = readDir(s.dirs.Grammars); err != nil {
			return err
		}
	}

	return rewriteManifest(s.dirs.Manifest,
		manifestPaths(s.dirs.Licenses, set.licenses),
		manifestPaths(s.dirs.Grammars, set.grammars))
}

// syncSource writes one source's license and grammar artifacts. It reports
// whether one of the grammars was the TypeScriptReact base grammar.
func (s *Syncer) syncSource(ctx context.Context, source registry.TrackedSource, set *outputSet) (bool, error) {
	if err := s.syncLicense(ctx, source, set); err != nil {
		return false, err
	}

	wroteBase := false
	for _, grammarPath := range source.GrammarPaths {
		scopeName, err := s.syncGrammar(ctx, source, grammarPath, set)
		if err != nil {
			return false, err
		}
		wroteBase = wroteBase || scopeName == baseScopeName
	}

	return wroteBase, nil
}

func (s *Syncer) syncLicense(ctx context.Context, source registry.TrackedSource, set *outputSet) error {
	body, err := s.fetcher.Fetch(ctx, source.Name, source.FetchRef(), source.LicenseFile())
	if err != nil {
		return err
	}

	text := string(body)
	if fragment := source.LicenseFragment(); fragment != "" {
		text, err = extractSection(source.LicensePath, text, fragment)
		if err != nil {
			return annotateSource(err, source.Name)
		}
	}

	filename := licenseFilename(source.Name)
	fetchURL := s.fetcher.RawURL(source.Name, source.FetchRef(), source.LicenseFile())
	rendered := renderLicense(fetchURL, text)

	if err := os.WriteFile(filepath.Join(s.dirs.Licenses, filename), []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write license for %s: %w", source.Name, err)
	}
	set.licenses[filename] = true

	s.logger.Debug(ctx, "wrote license", "source", source.Name, "file", filename)

	return nil
}

func (s *Syncer) syncGrammar(ctx context.Context, source registry.TrackedSource, grammarPath string, set *outputSet) (string, error) {
	raw, err := s.fetcher.Fetch(ctx, source.Name, source.FetchRef(), grammarPath)
	if err != nil {
		return "", err
	}

	doc, err := grammar.Normalize(grammarPath, raw)
	if err != nil {
		return "", annotateSource(err, source.Name)
	}

	scopeName, ok := doc.ScopeName()
	if !ok {
		return "", syncerrors.NewMissingScopeName(grammarPath).WithSource(source.Name)
	}

	if err := grammar.ValidateSchema(grammarPath, doc); err != nil {
		return "", err
	}

	if err := s.writeGrammar(doc, scopeName, set); err != nil {
		return "", err
	}

	s.logger.Debug(ctx, "wrote grammar",
		"source", source.Name, "path", grammarPath, "scope", scopeName)

	return scopeName, nil
}

// writeDerivedVariants regenerates the JavaScript grammars from the
// previously-written TypeScriptReact base grammar, once per scope suffix.
// Registries without the base grammar have nothing to derive.
func (s *Syncer) writeDerivedVariants(ctx context.Context, set *outputSet) error {
	basePath := filepath.Join(s.dirs.Grammars, baseScopeName+".json")
	raw, err := os.ReadFile(basePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load base grammar %s: %w", basePath, err)
	}

	var base grammar.Document
	if err := json.Unmarshal(raw, &base); err != nil {
		return fmt.Errorf("failed to parse base grammar %s: %w", basePath, err)
	}

	for _, suffix := range grammar.Suffixes() {
		derived := grammar.Derive(base, suffix)

		scopeName, ok := derived.ScopeName()
		if !ok {
			return syncerrors.NewMissingScopeName(basePath)
		}

		if err := s.writeGrammar(derived, scopeName, set); err != nil {
			return err
		}

		s.logger.Debug(ctx, "wrote derived variant", "suffix", suffix, "scope", scopeName)
	}

	return nil
}

func (s *Syncer) writeGrammar(doc grammar.Document, scopeName string, set *outputSet) error {
	data, err := doc.MarshalPretty()
	if err != nil {
		return err
	}

	filename := scopeName + ".json"
	if err := os.WriteFile(filepath.Join(s.dirs.Grammars, filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write grammar %s: %w", filename, err)
	}
	set.grammars[filename] = true

	return nil
}

// collectGarbage removes every file in dir that the current run did not
// produce: after an unfiltered run the directories are exact
// materializations of the registry state.
func collectGarbage(dir string, keep map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || keep[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func readDir(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names[entry.Name()] = true
		}
	}

	return names, nil
}

// annotateSource attaches the tracked-source name to structured errors so a
// fatal failure names the registry entry the operator has to fix.
func annotateSource(err error, source string) error {
	var se *syncerrors.SyncError
	if errors.As(err, &se) {
		return se.WithSource(source)
	}

	return err
}

// manifestPaths renders a directory's file set as sorted slash-separated
// paths for the packaging metadata.
func manifestPaths(dir string, names map[string]bool) []string {
	paths := make([]string, 0, len(names))
	for name := range names {
		paths = append(paths, filepath.ToSlash(filepath.Join(dir, name)))
	}
	sort.Strings(paths)

	return paths
}
