package registry

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// lineBudget is the column budget for rendered registry lines. Path tuples
// render inline when they fit; anything that still overflows carries a
// yamllint suppression so the checked-in file stays lint-clean.
const lineBudget = 80

const lintSuppression = "yamllint disable-line rule:line-length"

// Write serializes the registry back into its canonical textual form,
// replacing the file in place. Entry order is preserved as given; the update
// flow sorts by name before calling Write.
func Write(path string, sources []TrackedSource) error {
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			keyNode("sources"),
			sourcesNode(sources),
		},
	}
	doc.HeadComment = "Managed by grammarsync; `grammarsync update` rewrites the version pins."

	data, err := marshalDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize registry: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry %s: %w", path, err)
	}

	return nil
}

func sourcesNode(sources []TrackedSource) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, source := range sources {
		seq.Content = append(seq.Content, sourceNode(source))
	}

	return seq
}

// sourceNode renders one entry. Fields render in a fixed order; optional
// fields render only when present.
func sourceNode(source TrackedSource) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}

	appendField(node, "name", source.Name)
	appendField(node, "version", source.Version)
	appendField(node, "license", source.LicensePath)

	node.Content = append(node.Content, keyNode("grammars"), grammarsNode(source.GrammarPaths))

	if source.TodoRef != "" {
		appendField(node, "todo", source.TodoRef)
	}

	return node
}

// grammarsNode renders the path tuple inline when the whole line fits the
// budget, otherwise one sorted element per line.
func grammarsNode(paths []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}

	if flowLineWidth(paths) <= lineBudget {
		seq.Style = yaml.FlowStyle
		for _, p := range paths {
			seq.Content = append(seq.Content, scalarNode(p, blockElementWidth(p)))
		}

		return seq
	}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	for _, p := range sorted {
		seq.Content = append(seq.Content, scalarNode(p, blockElementWidth(p)))
	}

	return seq
}

// flowLineWidth is the rendered width of "    grammars: [a, b, ...]".
func flowLineWidth(paths []string) int {
	width := len("    grammars: []")
	for i, p := range paths {
		if i > 0 {
			width += len(", ")
		}
		width += len(p)
	}

	return width
}

// blockElementWidth is the rendered width of "      - path".
func blockElementWidth(path string) int {
	return len("      - ") + len(path)
}

func appendField(node *yaml.Node, key, value string) {
	// "    key: value" inside a sequence entry.
	width := len("    ") + len(key) + len(": ") + len(value)
	node.Content = append(node.Content, keyNode(key), scalarNode(value, width))
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key}
}

func scalarNode(value string, renderedWidth int) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if renderedWidth > lineBudget {
		node.LineComment = lintSuppression
	}

	return node
}

func marshalDocument(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
