// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc assembles pandoc invocations for Markdown-to-PDF
// conversion, including the fancyhdr running header.
package pandoc

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/pdiddy/mdtopdf/pkg/types"
)

// DefaultBinary is used when the configuration names no pandoc binary.
const DefaultBinary = "pandoc"

// Command is one pandoc invocation. Args is the argument vector, tool first,
// suitable for exec without a shell. Custom holds the user's raw extra
// options, which are only split when the command is executed.
type Command struct {
	Args   []string
	Custom string

	// line is the flattened shell form of Args.
	line []string
}

// String returns the invocation as a single shell command line. Paths and
// the header are double-quoted; Custom is appended verbatim.
func (c Command) String() string {
	s := strings.Join(c.line, " ")
	if c.Custom != "" {
		s += " " + c.Custom
	}
	return s
}

// Argv returns Args followed by Custom split with shell word rules.
// Unbalanced quotes and unquoted shell operators (& ; | < >) in Custom are
// errors: the command runs without a shell, so they have no meaning, and
// splitting would silently drop everything after them.
func (c Command) Argv() ([]string, error) {
	argv := append([]string(nil), c.Args...)
	if strings.TrimSpace(c.Custom) == "" {
		return argv, nil
	}
	p := shellwords.NewParser()
	extra, err := p.Parse(c.Custom)
	if err != nil {
		return nil, fmt.Errorf("parsing custom pandoc options %q: %w", c.Custom, err)
	}
	if p.Position != -1 {
		return nil, fmt.Errorf("parsing custom pandoc options %q: unquoted %q at offset %d, quote the value",
			c.Custom, c.Custom[p.Position], p.Position)
	}
	return append(argv, extra...), nil
}

// flag appends an argument that is rendered bare in the shell form.
func (c *Command) flag(args ...string) {
	c.Args = append(c.Args, args...)
	c.line = append(c.line, args...)
}

// quoted appends prefix+value, rendering value double-quoted in the shell form.
func (c *Command) quoted(prefix, value string) {
	c.Args = append(c.Args, prefix+value)
	c.line = append(c.line, prefix+shellQuote(value))
}

// Build assembles the pandoc command converting inputPath to outputPath.
// header is the LaTeX header-includes fragment and is only used when
// cfg.IncludeHeader is set. Build is pure: equal inputs give equal commands.
func Build(inputPath, outputPath string, cfg types.ConversionConfig, header string) Command {
	bin := cfg.PandocPath
	if bin == "" {
		bin = DefaultBinary
	}

	var c Command
	c.flag(bin)
	c.quoted("", inputPath)
	c.flag("-o")
	c.quoted("", outputPath)

	if cfg.Standalone {
		c.flag("-s")
	}
	if cfg.TableOfContents {
		c.flag("--toc")
	}
	if cfg.NumberSections {
		c.flag("--number-sections")
	}

	c.flag("-V", "lang="+cfg.Language)

	if cfg.HyphensURL {
		c.flag("-V", "hyphens=URL")
	}
	if cfg.BreakURLs {
		c.flag("-V", "breakurl")
	}

	c.flag("-V", "geometry:a4paper")
	c.flag("--wrap=preserve")

	if cfg.ResourcePath != "" {
		c.flag("--resource-path=" + cfg.ResourcePath)
	}
	if cfg.EmbedResources {
		c.flag("--embed-resources")
	}

	c.flag("-V", "geometry:"+Geometry(cfg.Margins))

	if cfg.IncludeHeader {
		c.quoted("--variable=header-includes:", header)
	}

	c.Custom = cfg.CustomPandocOptions
	return c
}

// Geometry renders margins as a geometry package option list.
func Geometry(m types.Margins) string {
	return fmt.Sprintf("left=%s,right=%s,top=%s,bottom=%s", m.Left, m.Right, m.Top, m.Bottom)
}
