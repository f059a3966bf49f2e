// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Markdown files into PDF by running pandoc.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/mdtopdf/internal/pandoc"
	"github.com/pdiddy/mdtopdf/internal/runner"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

// SuccessMessage is returned by Convert when pandoc exits cleanly.
const SuccessMessage = "Markdown converted to PDF successfully!"

// Converter runs one pandoc process per Convert call. It holds no
// per-conversion state, so concurrent calls are independent.
type Converter struct {
	runner runner.Runner
	clock  clockwork.Clock
	log    *slog.Logger
}

// New creates a Converter. A nil clock uses the wall clock and a nil logger
// uses slog.Default.
func New(r runner.Runner, clock clockwork.Clock, log *slog.Logger) *Converter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Converter{runner: r, clock: clock, log: log}
}

// OutputPath returns where the PDF for inputPath is written. A configured
// outputPath wins; relative values are resolved against the input's
// directory. Otherwise the input's extension is replaced with ".pdf".
func OutputPath(inputPath string, cfg types.ConversionConfig) string {
	out := cfg.OutputPath
	if out == "" {
		return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pdf"
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(filepath.Dir(inputPath), out)
	}
	return out
}

// Command builds the pandoc command for inputPath whose text is content.
func (c *Converter) Command(inputPath, content string, cfg types.ConversionConfig) pandoc.Command {
	var header string
	if cfg.IncludeHeader {
		header = pandoc.HeaderFragment(content, cfg, c.clock, c.diagnostics(cfg))
	}
	return pandoc.Build(inputPath, OutputPath(inputPath, cfg), cfg, header)
}

// Convert reads inputPath, runs pandoc on it and returns a message for the
// user. Any failure is returned as a single error; nothing is retried.
func (c *Converter) Convert(ctx context.Context, inputPath string, cfg types.ConversionConfig) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("converting to PDF: reading %s: %w", inputPath, err)
	}

	cmd := c.Command(inputPath, string(data), cfg)
	log := c.diagnostics(cfg)
	log.Info("Pandoc command", "command", cmd.String())

	argv, err := cmd.Argv()
	if err != nil {
		return "", fmt.Errorf("converting to PDF: %w", err)
	}
	log.Debug("Executing pandoc", "argv", shellescape.QuoteCommand(argv))

	res, err := c.runner.Run(ctx, argv)
	if err != nil {
		log.Error("Pandoc error", "error", err, "stderr", strings.TrimSpace(res.Stderr))
		return "", fmt.Errorf("converting to PDF: %w", err)
	}
	if s := strings.TrimSpace(res.Stderr); s != "" {
		log.Warn("Pandoc stderr", "stderr", s)
	}
	return SuccessMessage, nil
}

// diagnostics returns the logger for cfg. Diagnostics are only emitted when
// enableLogging is set.
func (c *Converter) diagnostics(cfg types.ConversionConfig) *slog.Logger {
	if !cfg.EnableLogging {
		return discard
	}
	return c.log
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertFile converts one file, printing a status line to w.
func ConvertFile(ctx context.Context, c *Converter, path string, cfg types.ConversionConfig, w io.Writer) types.ConversionStatus {
	msg, err := c.Convert(ctx, path, cfg)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
		return types.ConversionFailed
	}
	fmt.Fprintf(w, "converted: %s -> %s (%s)\n", path, OutputPath(path, cfg), msg)
	return types.ConversionDone
}

// ConvertBatch converts each path in order with the same configuration
// snapshot, printing per-file status to w and returning a summary.
func ConvertBatch(ctx context.Context, c *Converter, paths []string, cfg types.ConversionConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		switch ConvertFile(ctx, c, p, cfg, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	if len(paths) > 1 {
		fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
			result.Converted, result.Failed, result.Total())
	}
	return result
}
