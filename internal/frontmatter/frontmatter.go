// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter seeds new Markdown documents with a metadata block
// that the title extractor and pandoc both understand.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	fm "github.com/adrg/frontmatter"
	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/mdtopdf/internal/pandoc"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

const (
	placeholderTitle  = "Your Title"
	placeholderAuthor = "Your Name, Your First Name / ID / Organization / Student number"
)

// Template renders the metadata block inserted at the top of new documents.
// The block ends with a blank line so the body starts cleanly.
func Template(date string) string {
	return fmt.Sprintf("---\ntitle: %q\nauthor: %s\ndate: %q\n---\n\n", placeholderTitle, placeholderAuthor, date)
}

// Has reports whether content already starts with a YAML, TOML or JSON
// frontmatter block. A block that exists but fails to decode still counts.
func Has(content []byte) bool {
	var meta map[string]any
	_, err := fm.MustParse(bytes.NewReader(content), &meta)
	return !errors.Is(err, fm.ErrNotFound)
}

// Insert prepends Template to the file at path when cfg.AddFrontmatter is
// set and the file has no frontmatter yet. It reports whether the file was
// changed.
func Insert(path string, cfg types.ConversionConfig, clock clockwork.Clock) (bool, error) {
	if !cfg.AddFrontmatter {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if Has(data) {
		return false, nil
	}

	block := Template(pandoc.FormatDate(clock.Now(), cfg))
	out := make([]byte, 0, len(block)+len(data))
	out = append(out, block...)
	out = append(out, data...)

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing frontmatter to %s: %w", path, err)
	}
	return true, nil
}
