// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mdtopdf CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mdtopdf/internal/config"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the mdtopdf CLI.
var rootCmd = &cobra.Command{
	Use:   "mdtopdf",
	Short: "Convert Markdown files to PDF with pandoc",
	Long: `mdtopdf converts Markdown documents to PDF by running pandoc with a
LaTeX page setup built from configuration: A4 geometry with custom margins,
optional table of contents and section numbering, and a running header with
the document title and date.

Options are read from mdtopdf.yaml, MDTOPDF_* environment variables (also
from a .env file in the working directory) and command-line flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./mdtopdf.yaml or ~/.config/mdtopdf/mdtopdf.yaml)")
	pf.StringP("output", "o", "", "output path; relative paths are resolved against the input's directory")
	pf.String("pandoc", "", "pandoc binary (default \"pandoc\")")
	pf.Bool("toc", false, "include a table of contents")
	pf.Bool("number-sections", false, "number section headings")
	pf.Bool("header", false, "add a running header with title and date")
	pf.String("title", "", "header title when not extracted from the document")
	pf.String("lang", "", "document language tag (e.g. de-DE)")
	pf.String("pandoc-options", "", "extra pandoc options appended verbatim")
	pf.Bool("verbose", false, "log the pandoc command and its warnings")

	bindFlag("outputPath", "output")
	bindFlag("pandocPath", "pandoc")
	bindFlag("tableOfContents", "toc")
	bindFlag("numberSections", "number-sections")
	bindFlag("includeHeader", "header")
	bindFlag("documentTitle", "title")
	bindFlag("language", "lang")
	bindFlag("customPandocOptions", "pandoc-options")
	bindFlag("enableLogging", "verbose")

	config.SetDefaults(viper.GetViper())
}

// bindFlag binds a persistent flag to a configuration key. Only flags set on
// the command line override file and environment values.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mdtopdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mdtopdf"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// snapshot reads the current configuration.
func snapshot() (types.ConversionConfig, error) {
	return config.Snapshot(viper.GetViper())
}

// reloadSnapshot re-reads the config file before decoding, so long-running
// commands see edits made while they run.
func reloadSnapshot() (types.ConversionConfig, error) {
	return config.Reload(viper.GetViper())
}

// newLogger returns the diagnostics logger. Only warnings and errors are
// shown unless enableLogging turns on debug output.
func newLogger(cfg types.ConversionConfig) *slog.Logger {
	level := slog.LevelWarn
	if cfg.EnableLogging {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
