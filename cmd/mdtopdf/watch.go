package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mdtopdf/internal/convert"
	"github.com/pdiddy/mdtopdf/internal/runner"
	"github.com/pdiddy/mdtopdf/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Convert Markdown files on save and seed new files with frontmatter",
	Long: `Watch monitors directories (default: the current directory) for Markdown
changes. Saved files are converted when autoSaveEnabled is set; newly created
files get a frontmatter block when addFrontmatter is set. Configuration is
re-read for every event.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("auto-save", false, "convert files on save")
	if err := viper.BindPFlag("autoSaveEnabled", watchCmd.Flags().Lookup("auto-save")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	cfg, err := snapshot()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := convert.New(runner.New(), nil, log)
	w := watch.New(conv, reloadSnapshot, nil, log, os.Stdout)
	return w.Run(ctx, dirs)
}
