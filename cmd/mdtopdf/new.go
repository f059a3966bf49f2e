package main

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/pdiddy/mdtopdf/internal/frontmatter"
)

var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Create a Markdown file with a frontmatter template",
	Long: `New creates a Markdown file that does not exist yet. When addFrontmatter is
set the file starts with a title, author and date block.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := snapshot()
		if err != nil {
			return err
		}

		path := args[0]
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}

		added, err := frontmatter.Insert(path, cfg, clockwork.NewRealClock())
		if err != nil {
			return fmt.Errorf("failed to add frontmatter to new Markdown file: %w", err)
		}
		if added {
			fmt.Fprintln(cmd.OutOrStdout(), "Frontmatter added to new Markdown file.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
