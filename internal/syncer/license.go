package syncer

import (
	"strings"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
)

// licenseFilename derives the license output filename from a source name:
// "owner/repo" becomes "owner-repo.txt".
func licenseFilename(name string) string {
	return strings.ReplaceAll(name, "/", "-") + ".txt"
}

// extractSection splits a document on markdown heading markers and returns
// the body of the first section whose heading text starts with fragment. The
// heading line itself is stripped.
func extractSection(path, body, fragment string) (string, error) {
	lines := strings.Split(body, "\n")

	start := -1
	for i, line := range lines {
		text, ok := headingText(line)
		if ok && strings.HasPrefix(text, fragment) {
			start = i + 1

			break
		}
	}
	if start < 0 {
		return "", syncerrors.NewMissingSection(path, fragment)
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if _, ok := headingText(lines[i]); ok {
			end = i

			break
		}
	}

	return strings.Join(lines[start:end], "\n"), nil
}

// headingText returns the text of a markdown heading line, or ok=false when
// the line is not a heading.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, "#")
	if trimmed == line || len(line)-len(trimmed) > 6 {
		return "", false
	}
	if trimmed != "" && !strings.HasPrefix(trimmed, " ") {
		return "", false
	}

	return strings.TrimSpace(trimmed), true
}

// renderLicense produces the annotated license file: a provenance header
// citing the exact fetch URL, a separator rule, and the license body with
// per-line trailing whitespace stripped.
func renderLicense(fetchURL, body string) string {
	var b strings.Builder

	b.WriteString("Retrieved from " + fetchURL + "\n\n")
	b.WriteString(strings.Repeat("-", 72) + "\n\n")

	lines := strings.Split(strings.TrimSpace(body), "\n")
	for _, line := range lines {
		b.WriteString(strings.TrimRight(line, " \t") + "\n")
	}

	return b.String()
}
