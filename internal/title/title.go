// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title derives a display title from Markdown content. The YAML
// frontmatter title wins over the first level-1 heading; documents with
// neither are "Untitled".
package title

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Untitled is returned when the content carries no title.
const Untitled = "Untitled"

var (
	// frontmatterRe matches a block opened by "---" on the first line and
	// closed by the next line starting with "---".
	frontmatterRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?)\r?\n---`)

	// headingRe matches an ATX level-1 heading anywhere in the content.
	headingRe = regexp.MustCompile(`(?m)^#[ \t]+(.*?)[ \t\r]*$`)
)

// Extract returns the document title. Frontmatter parse errors are logged
// to log at debug level and fall through to the heading lookup; Extract
// never fails. A nil logger discards the diagnostics.
func Extract(content string, log *slog.Logger) string {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if t, err := fromFrontmatter(content); err != nil {
		log.Debug("Error parsing frontmatter", "error", err)
	} else if t != "" {
		return t
	}

	for _, m := range headingRe.FindAllStringSubmatch(content, -1) {
		if m[1] != "" {
			return m[1]
		}
	}
	return Untitled
}

// fromFrontmatter returns the frontmatter title, or "" when there is no
// block or no title key.
func fromFrontmatter(content string) (string, error) {
	m := frontmatterRe.FindStringSubmatch(content)
	if m == nil {
		return "", nil
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(m[1]), &meta); err != nil {
		return "", fmt.Errorf("decoding frontmatter: %w", err)
	}

	switch v := meta["title"].(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case map[string]any, []any:
		return "", fmt.Errorf("frontmatter title is not a scalar: %v", v)
	default:
		return fmt.Sprint(v), nil
	}
}
