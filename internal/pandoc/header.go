// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/goodsign/monday"
	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/mdtopdf/internal/title"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

const (
	// DefaultDateLocale renders month names in German.
	DefaultDateLocale = "de_DE"
	// DefaultDateLayout renders "14. Oktober 2026" under DefaultDateLocale.
	DefaultDateLayout = "2. January 2006"
)

// FormatDate renders t with the configured locale and layout, falling back
// to the defaults for empty values.
func FormatDate(t time.Time, cfg types.ConversionConfig) string {
	locale := cfg.DateLocale
	if locale == "" {
		locale = DefaultDateLocale
	}
	layout := cfg.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return monday.Format(t, layout, monday.Locale(locale))
}

// HeaderTitle resolves the running-header title for content.
func HeaderTitle(content string, cfg types.ConversionConfig, log *slog.Logger) string {
	if cfg.ExtractTitleFromMarkdown {
		return title.Extract(content, log)
	}
	if cfg.DocumentTitle != "" {
		return cfg.DocumentTitle
	}
	return title.Untitled
}

// HeaderFragment returns the header-includes value that sets a fancyhdr page
// style with the title on the left and today's date on the right. Both are
// LaTeX-escaped; shell quoting is left to Command.String.
func HeaderFragment(content string, cfg types.ConversionConfig, clock clockwork.Clock, log *slog.Logger) string {
	left := EscapeLaTeX(HeaderTitle(content, cfg, log))
	right := EscapeLaTeX(FormatDate(clock.Now(), cfg))

	return fmt.Sprintf(`\usepackage{fancyhdr}\pagestyle{fancy}\fancyhead[L]{%s}\fancyhead[C]{}\fancyhead[R]{%s}`, left, right)
}
