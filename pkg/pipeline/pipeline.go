// Package pipeline provides the load → render → sink pipeline shared by the
// CLI commands and the preview server.
//
// Centralizing this logic keeps behavior consistent across entry points:
// the draw command, the layer picker, and the serve handlers all execute
// the same stages with the same caching and validation.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "corne.toml",
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/caksoylar/keymap/pkg/errors"
)

// Default values shared by all entry points.
const (
	// DefaultScale is the PNG scale factor (2x resolution).
	DefaultScale = 2.0

	// DefaultArtifactTTL bounds how long converted artifacts stay cached.
	DefaultArtifactTTL = 7 * 24 * time.Hour
)

// Output format identifiers.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// Options configures a pipeline run.
type Options struct {
	// Input is the path of the TOML keymap document.
	Input string `json:"input"`

	// Formats selects the artifacts to produce. Defaults to ["svg"].
	Formats []string `json:"formats,omitempty"`

	// Scale is the PNG scale factor. Defaults to DefaultScale.
	Scale float64 `json:"scale,omitempty"`

	// Layer restricts rendering to a single named layer. Empty renders
	// the whole board.
	Layer string `json:"layer,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage progress. Defaults to a discarding logger.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "input path is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount int
	ComboCount int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which artifacts were served from cache.
type CacheInfo struct {
	// Hits maps format to whether the artifact came from cache.
	Hits map[string]bool
}

// Cached reports whether every produced artifact was a cache hit.
func (c CacheInfo) Cached() bool {
	if len(c.Hits) == 0 {
		return false
	}
	for _, hit := range c.Hits {
		if !hit {
			return false
		}
	}
	return true
}
