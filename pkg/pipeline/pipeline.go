// Package pipeline provides the conversion pipeline shared by every command.
//
// This package implements the complete parse → build → synthesize → render
// pipeline for one BPMN document, plus the file and batch drivers on top of
// it. Centralizing it keeps convert, watch and batch runs identical.
//
// # Architecture
//
// One conversion runs four stages:
//
//  1. Parse: read the BPMN XML ([bpmn.Parse])
//  2. Build: resolve the diagram interchange into a model ([diagram.Build])
//  3. Synthesize: map the model onto page shapes ([shape.Synthesize])
//  4. Render: write each requested format (VSDX, SVG, PDF, PNG, JSON)
//
// The artifacts of a conversion depend only on the input bytes and the
// options, so a [Runner] caches them by content hash.
//
// # Usage
//
// Create a Runner and convert:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Convert(ctx, pipeline.Input{Name: "order.bpmn", Data: data}, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vsdx := result.Artifacts["vsdx"]
//
// Convert files on disk:
//
//	fr, err := runner.ConvertFile(ctx, "order.bpmn", "out", opts)
//	batch := runner.Batch(ctx, paths, "out", opts, pipeline.BatchOptions{Workers: 4})
//
// [bpmn.Parse]: github.com/Mgabr90/bpmn-to-visio/pkg/bpmn.Parse
// [diagram.Build]: github.com/Mgabr90/bpmn-to-visio/pkg/diagram.Build
// [shape.Synthesize]: github.com/Mgabr90/bpmn-to-visio/pkg/render/shape.Synthesize
package pipeline

import (
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Mgabr90/bpmn-to-visio/pkg/buildinfo"
	"github.com/Mgabr90/bpmn-to-visio/pkg/cache"
	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	// DefaultPNGScale is the PNG resolution multiplier.
	DefaultPNGScale = 2.0

	// DefaultWorkers is the batch concurrency when none is given.
	DefaultWorkers = 4
)

// Format constants for output formats.
const (
	FormatVSDX = "vsdx"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatVSDX: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one conversion.
// Zero values select the defaults.
type Options struct {
	// Formats lists the outputs to render; default vsdx.
	Formats []string `json:"formats,omitempty"`

	// Coordinate transform; see [geom.Options].
	PPI           float64 `json:"ppi,omitempty"`
	Margin        float64 `json:"margin,omitempty"`
	MinPageWidth  float64 `json:"min_page_width,omitempty"`
	MinPageHeight float64 `json:"min_page_height,omitempty"`

	// Palette overrides the default colours field by field.
	Palette shape.Palette `json:"palette"`

	// PageName names the Visio page; default is the diagram name.
	PageName string `json:"page_name,omitempty"`

	// PNGScale is the PNG resolution multiplier.
	PNGScale float64 `json:"png_scale,omitempty"`

	// Refresh skips cache reads; results are still written to the cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Input is one BPMN document to convert.
type Input struct {
	// Name identifies the input in logs and reports, usually its file name.
	Name string
	Data []byte
}

// Result contains the outputs of a conversion.
type Result struct {
	Name string

	// Diagram and Drawing are nil when every artifact came from the cache.
	Diagram *diagram.Diagram
	Drawing *shape.Drawing

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timing.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains conversion statistics.
type Stats struct {
	Elements      int      `json:"elements"`
	Flows         int      `json:"flows"`
	Shapes        int      `json:"shapes"`
	Connectors    int      `json:"connectors"`
	SkippedShapes int      `json:"skipped_shapes"`
	SkippedFlows  int      `json:"skipped_flows"`
	Warnings      []string `json:"warnings,omitempty"`

	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`

	ParseTime  time.Duration `json:"-"`
	BuildTime  time.Duration `json:"-"`
	SynthTime  time.Duration `json:"-"`
	RenderTime time.Duration `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
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

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the options.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatVSDX}
	}
	g := geom.Options{PPI: o.PPI, Margin: o.Margin, MinPageWidth: o.MinPageWidth, MinPageHeight: o.MinPageHeight}.WithDefaults()
	o.PPI, o.Margin, o.MinPageWidth, o.MinPageHeight = g.PPI, g.Margin, g.MinPageWidth, g.MinPageHeight
	o.Palette = o.Palette.WithDefaults()
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options without changing them.
func (o *Options) Validate() error {
	err := validation.ValidateStruct(o,
		validation.Field(&o.Formats, validation.Required, validation.Each(validation.By(func(v any) error {
			s, _ := v.(string)
			return ValidateFormat(s)
		}))),
		validation.Field(&o.PPI, validation.Min(0.0).Exclusive()),
		validation.Field(&o.Margin, validation.Min(0.0)),
		validation.Field(&o.MinPageWidth, validation.Min(0.0)),
		validation.Field(&o.MinPageHeight, validation.Min(0.0)),
		validation.Field(&o.PNGScale, validation.Min(0.0).Exclusive(), validation.Max(16.0)),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	if err := o.Palette.Validate(); err != nil {
		return err
	}
	return nil
}

// GeomOptions returns the coordinate transform options.
func (o *Options) GeomOptions() geom.Options {
	return geom.Options{
		PPI:           o.PPI,
		Margin:        o.Margin,
		MinPageWidth:  o.MinPageWidth,
		MinPageHeight: o.MinPageHeight,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	palette, _ := json.Marshal(o.Palette)
	return cache.ArtifactKeyOpts{
		Format:        format,
		PPI:           o.PPI,
		Margin:        o.Margin,
		MinPageWidth:  o.MinPageWidth,
		MinPageHeight: o.MinPageHeight,
		PageName:      o.PageName,
		Palette:       cache.Hash(palette),
		Version:       buildinfo.Version,
	}
}
