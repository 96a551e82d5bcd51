// Package config loads converter settings from TOML or YAML files.
//
// Settings are layered: built-in defaults, then a config file, then command
// line flags. A file only needs the keys it changes:
//
//	[output]
//	formats = ["vsdx", "svg"]
//	dir = "~/diagrams/visio"
//
//	[palette]
//	start_fill = "#D5E8D4"
//
// The format is chosen by extension (.toml, .yaml or .yml). Unknown keys are
// rejected so typos do not silently fall back to defaults. Paths may start
// with ~, which is expanded to the user's home directory.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// FileName is the base name searched for by [DefaultPaths].
const FileName = "bpmn2vsdx"

// Config holds all converter configuration.
type Config struct {
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Page    PageConfig    `toml:"page" yaml:"page"`
	Batch   BatchConfig   `toml:"batch" yaml:"batch"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Palette shape.Palette `toml:"palette" yaml:"palette"`
}

// OutputConfig controls what is written and where.
type OutputConfig struct {
	Dir      string   `toml:"dir" yaml:"dir"` // empty = next to the input
	Formats  []string `toml:"formats" yaml:"formats"`
	PageName string   `toml:"page_name" yaml:"page_name"`
	PNGScale float64  `toml:"png_scale" yaml:"png_scale"`
}

// PageConfig controls the coordinate transform.
type PageConfig struct {
	PPI       float64 `toml:"ppi" yaml:"ppi"`
	Margin    float64 `toml:"margin" yaml:"margin"` // source pixels
	MinWidth  float64 `toml:"min_width" yaml:"min_width"`
	MinHeight float64 `toml:"min_height" yaml:"min_height"`
}

// BatchConfig controls directory conversion.
type BatchConfig struct {
	Workers int    `toml:"workers" yaml:"workers"`
	Report  string `toml:"report" yaml:"report"` // .xlsx, .json or .csv
}

// CacheConfig controls the artifact cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	Dir      string `toml:"dir" yaml:"dir"` // empty = user cache dir
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Formats:  []string{pipeline.FormatVSDX},
			PNGScale: pipeline.DefaultPNGScale,
		},
		Page: PageConfig{
			PPI:       geom.DefaultPPI,
			Margin:    geom.DefaultMargin,
			MinWidth:  geom.DefaultMinPageWidth,
			MinHeight: geom.DefaultMinPageHeight,
		},
		Batch: BatchConfig{
			Workers: pipeline.DefaultWorkers,
		},
		Palette: shape.DefaultPalette(),
	}
}

// DefaultPaths returns the locations searched when no file is named, in
// priority order: the working directory, then the user config directory.
func DefaultPaths() []string {
	var paths []string
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		paths = append(paths, "."+FileName+ext)
	}
	if home, err := homedir.Dir(); err == nil {
		dir := filepath.Join(home, ".config", FileName)
		for _, ext := range []string{".toml", ".yaml", ".yml"} {
			paths = append(paths, filepath.Join(dir, "config"+ext))
		}
	}
	return paths
}

// Find returns the first existing file of [DefaultPaths], or "".
func Find() string {
	for _, p := range DefaultPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads path over the defaults. An empty path loads the first file
// found by [Find], or just the defaults when there is none.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Find()
		if path == "" {
			return Default(), nil
		}
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "config path %s", path)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg, err := Parse(data, filepath.Ext(expanded))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext over the defaults, then
// expands paths and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	// A file that sets formats replaces the default list.
	cfg.Output.Formats = nil

	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode YAML")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{pipeline.FormatVSDX}
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Output.Dir, &c.Batch.Report, &c.Cache.Dir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "expand %s", *p)
		}
		*p = expanded
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(&c.Output,
		validation.Field(&c.Output.Formats, validation.Required, validation.Each(validation.By(isFormat))),
		validation.Field(&c.Output.PNGScale, validation.Min(0.0).Exclusive(), validation.Max(16.0)),
	)
	if err == nil {
		err = validation.ValidateStruct(&c.Page,
			validation.Field(&c.Page.PPI, validation.Required, validation.Min(0.0).Exclusive()),
			validation.Field(&c.Page.Margin, validation.Min(0.0)),
			validation.Field(&c.Page.MinWidth, validation.Min(0.0)),
			validation.Field(&c.Page.MinHeight, validation.Min(0.0)),
		)
	}
	if err == nil {
		err = validation.ValidateStruct(&c.Batch,
			validation.Field(&c.Batch.Workers, validation.Min(1), validation.Max(256)),
			validation.Field(&c.Batch.Report, validation.By(isReportPath)),
		)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	return c.Palette.Validate()
}

func isFormat(v any) error {
	s, _ := v.(string)
	return pipeline.ValidateFormat(s)
}

func isReportPath(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(s)) {
	case ".xlsx", ".json", ".csv":
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "report must be .xlsx, .json or .csv")
}

// Apply copies the configuration into opts. Fields already set on opts
// win, so flags applied first take priority over the file.
func (c *Config) Apply(opts *pipeline.Options) {
	if len(opts.Formats) == 0 {
		opts.Formats = append([]string(nil), c.Output.Formats...)
	}
	if opts.PageName == "" {
		opts.PageName = c.Output.PageName
	}
	if opts.PNGScale == 0 {
		opts.PNGScale = c.Output.PNGScale
	}
	if opts.PPI == 0 {
		opts.PPI = c.Page.PPI
	}
	if opts.Margin == 0 {
		opts.Margin = c.Page.Margin
	}
	if opts.MinPageWidth == 0 {
		opts.MinPageWidth = c.Page.MinWidth
	}
	if opts.MinPageHeight == 0 {
		opts.MinPageHeight = c.Page.MinHeight
	}
	opts.Palette = mergePalette(opts.Palette, c.Palette)
}

// mergePalette fills the empty fields of p from base.
func mergePalette(p, base shape.Palette) shape.Palette {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.StartFill, base.StartFill)
	fill(&p.EndFill, base.EndFill)
	fill(&p.IntermediateFill, base.IntermediateFill)
	fill(&p.NeutralFill, base.NeutralFill)
	fill(&p.Stroke, base.Stroke)
	fill(&p.ContainerStroke, base.ContainerStroke)
	fill(&p.Text, base.Text)
	fill(&p.Connector, base.Connector)
	fill(&p.ConnectorLabel, base.ConnectorLabel)
	fill(&p.MessageLabel, base.MessageLabel)
	fill(&p.Association, base.Association)
	return p
}

// Encode writes c as TOML, for `config init`-style output.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
