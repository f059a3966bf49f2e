// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config maps viper settings onto types.ConversionConfig snapshots.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/pdiddy/mdtopdf/internal/pandoc"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

// EnvPrefix is prepended to environment variable names, so "margins.left"
// is read from MDTOPDF_MARGINS_LEFT.
const EnvPrefix = "MDTOPDF"

// reloadMu serializes Reload, which mutates the viper instance.
var reloadMu sync.Mutex

// Defaults returns the configuration used when nothing is set.
func Defaults() types.ConversionConfig {
	return types.ConversionConfig{
		PandocPath:               pandoc.DefaultBinary,
		Standalone:               true,
		Language:                 "de-DE",
		HyphensURL:               true,
		BreakURLs:                true,
		Margins:                  types.Margins{Left: "2.5cm", Right: "2.5cm", Top: "2.5cm", Bottom: "2cm"},
		IncludeHeader:            true,
		ExtractTitleFromMarkdown: true,
		DocumentTitle:            "",
		DateLocale:               pandoc.DefaultDateLocale,
		DateLayout:               pandoc.DefaultDateLayout,
		AddFrontmatter:           true,
	}
}

// SetDefaults registers every option on v. Registering all keys lets
// AutomaticEnv resolve them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("pandocPath", d.PandocPath)
	v.SetDefault("outputPath", d.OutputPath)
	v.SetDefault("standalone", d.Standalone)
	v.SetDefault("tableOfContents", d.TableOfContents)
	v.SetDefault("numberSections", d.NumberSections)
	v.SetDefault("language", d.Language)
	v.SetDefault("hyphensUrl", d.HyphensURL)
	v.SetDefault("breakUrls", d.BreakURLs)
	v.SetDefault("resourcePath", d.ResourcePath)
	v.SetDefault("embedResources", d.EmbedResources)
	v.SetDefault("margins.left", d.Margins.Left)
	v.SetDefault("margins.right", d.Margins.Right)
	v.SetDefault("margins.top", d.Margins.Top)
	v.SetDefault("margins.bottom", d.Margins.Bottom)
	v.SetDefault("includeHeader", d.IncludeHeader)
	v.SetDefault("extractTitleFromMarkdown", d.ExtractTitleFromMarkdown)
	v.SetDefault("documentTitle", d.DocumentTitle)
	v.SetDefault("dateLocale", d.DateLocale)
	v.SetDefault("dateLayout", d.DateLayout)
	v.SetDefault("customPandocOptions", d.CustomPandocOptions)
	v.SetDefault("enableLogging", d.EnableLogging)
	v.SetDefault("addFrontmatter", d.AddFrontmatter)
	v.SetDefault("autoSaveEnabled", d.AutoSaveEnabled)
}

// BindEnv enables MDTOPDF_* environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Snapshot decodes the current settings of v. Numeric margins in config
// files are accepted and rendered in decimal form.
func Snapshot(v *viper.Viper) (types.ConversionConfig, error) {
	var cfg types.ConversionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.ConversionConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// Reload re-reads the config file v was loaded from, then decodes a
// snapshot. A file that has since been removed leaves the previous values
// in place; v without a config file is decoded as is.
func Reload(v *viper.Viper) (types.ConversionConfig, error) {
	reloadMu.Lock()
	defer reloadMu.Unlock()

	if v.ConfigFileUsed() != "" {
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return types.ConversionConfig{}, fmt.Errorf("reading %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return Snapshot(v)
}
