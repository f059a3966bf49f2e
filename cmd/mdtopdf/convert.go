package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mdtopdf/internal/convert"
	"github.com/pdiddy/mdtopdf/internal/runner"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert Markdown files to PDF",
	Long: `Convert runs pandoc once per Markdown file. The PDF is written next to the
input unless outputPath is configured. Failures are reported per file and
are not retried.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := snapshot()
	if err != nil {
		return err
	}

	conv := convert.New(runner.New(), nil, newLogger(cfg))
	result := convert.ConvertBatch(cmd.Context(), conv, args, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
