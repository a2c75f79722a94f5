package syncer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Packaging-metadata keys owned by the sync flow. Everything else in the
// manifest passes through untouched.
const (
	manifestLicensesKey = "license-files"
	manifestGrammarsKey = "grammar-files"
)

// rewriteManifest sets the two file-list keys of the packaging-metadata file
// to the given sorted paths, preserving all other content. The output is
// deterministic: tabs become spaces and trailing line whitespace is trimmed.
func rewriteManifest(path string, licenseFiles, grammarFiles []string) error {
	root, err := loadManifest(path)
	if err != nil {
		return err
	}

	setStringList(root, manifestLicensesKey, licenseFiles)
	setStringList(root, manifestGrammarsKey, grammarFiles)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}

	if err := os.WriteFile(path, normalizeText(buf.Bytes()), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return nil
}

// loadManifest parses the manifest into a mapping node, creating an empty
// mapping when the file does not exist yet.
func loadManifest(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	}

	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		if doc.Content[0].Kind != yaml.MappingNode {
			return nil, fmt.Errorf("manifest %s is not a mapping", path)
		}

		return doc.Content[0], nil
	}

	return &yaml.Node{Kind: yaml.MappingNode}, nil
}

// setStringList replaces the value of a mapping key with a block sequence of
// strings, appending the key when absent.
func setStringList(mapping *yaml.Node, key string, values []string) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: v})
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = seq

			return
		}
	}

	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key}, seq)
}

// normalizeText converts tabs to spaces and trims trailing line whitespace.
func normalizeText(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		lines[i] = strings.TrimRight(line, " ")
	}

	return []byte(strings.Join(lines, "\n"))
}
