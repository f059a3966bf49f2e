package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mdtopdf/internal/convert"
	"github.com/pdiddy/mdtopdf/internal/runner"
)

var commandCmd = &cobra.Command{
	Use:   "command <file>",
	Short: "Print the pandoc command for a Markdown file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := snapshot()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		conv := convert.New(runner.New(), nil, newLogger(cfg))
		fmt.Fprintln(cmd.OutOrStdout(), conv.Command(args[0], string(data), cfg).String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandCmd)
}
