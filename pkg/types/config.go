// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Margins holds the four page insets passed to the geometry package. Values
// are used verbatim, so units (cm, mm, in) are the caller's responsibility.
type Margins struct {
	Left   string `json:"left" yaml:"left" mapstructure:"left"`
	Right  string `json:"right" yaml:"right" mapstructure:"right"`
	Top    string `json:"top" yaml:"top" mapstructure:"top"`
	Bottom string `json:"bottom" yaml:"bottom" mapstructure:"bottom"`
}

// ConversionConfig is a snapshot of the options that shape one conversion.
// It is read once per conversion and never mutated afterwards.
type ConversionConfig struct {
	// PandocPath is the pandoc binary to run (default "pandoc").
	PandocPath string `json:"pandocPath" yaml:"pandocPath" mapstructure:"pandocPath"`

	// OutputPath overrides the computed output path. Relative paths are
	// resolved against the input file's directory.
	OutputPath string `json:"outputPath" yaml:"outputPath" mapstructure:"outputPath"`

	Standalone      bool `json:"standalone" yaml:"standalone" mapstructure:"standalone"`
	TableOfContents bool `json:"tableOfContents" yaml:"tableOfContents" mapstructure:"tableOfContents"`
	NumberSections  bool `json:"numberSections" yaml:"numberSections" mapstructure:"numberSections"`

	// Language is the BCP 47 tag passed as the lang variable. It is not
	// validated; pandoc reports invalid tags.
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	HyphensURL bool `json:"hyphensUrl" yaml:"hyphensUrl" mapstructure:"hyphensUrl"`
	BreakURLs  bool `json:"breakUrls" yaml:"breakUrls" mapstructure:"breakUrls"`

	// ResourcePath is the pandoc resource search path. Empty disables the flag.
	ResourcePath   string `json:"resourcePath" yaml:"resourcePath" mapstructure:"resourcePath"`
	EmbedResources bool   `json:"embedResources" yaml:"embedResources" mapstructure:"embedResources"`

	Margins Margins `json:"margins" yaml:"margins" mapstructure:"margins"`

	// IncludeHeader adds a fancyhdr running header with title and date.
	IncludeHeader bool `json:"includeHeader" yaml:"includeHeader" mapstructure:"includeHeader"`

	// ExtractTitleFromMarkdown takes the header title from the document's
	// frontmatter or first heading instead of DocumentTitle.
	ExtractTitleFromMarkdown bool   `json:"extractTitleFromMarkdown" yaml:"extractTitleFromMarkdown" mapstructure:"extractTitleFromMarkdown"`
	DocumentTitle            string `json:"documentTitle" yaml:"documentTitle" mapstructure:"documentTitle"`

	// DateLocale selects month names for header and frontmatter dates
	// (e.g. "de_DE", "en_US").
	DateLocale string `json:"dateLocale" yaml:"dateLocale" mapstructure:"dateLocale"`

	// DateLayout is a Go time layout for header and frontmatter dates.
	DateLayout string `json:"dateLayout" yaml:"dateLayout" mapstructure:"dateLayout"`

	// CustomPandocOptions is appended to the command without validation.
	CustomPandocOptions string `json:"customPandocOptions" yaml:"customPandocOptions" mapstructure:"customPandocOptions"`

	EnableLogging   bool `json:"enableLogging" yaml:"enableLogging" mapstructure:"enableLogging"`
	AddFrontmatter  bool `json:"addFrontmatter" yaml:"addFrontmatter" mapstructure:"addFrontmatter"`
	AutoSaveEnabled bool `json:"autoSaveEnabled" yaml:"autoSaveEnabled" mapstructure:"autoSaveEnabled"`
}
