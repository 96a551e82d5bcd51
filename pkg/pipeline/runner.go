package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mgabr90/bpmn-to-visio/pkg/bpmn"
	"github.com/Mgabr90/bpmn-to-visio/pkg/cache"
	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/observability"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// statsFormat is the pseudo-format under which a conversion's Stats are
// cached next to its artifacts.
const statsFormat = "stats"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store conversion results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Hooks receives conversion events; nil uses the registered
	// [observability.Pipeline] hooks.
	Hooks observability.PipelineHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.Pipeline()
}

// Convert runs the complete parse → build → synthesize → render pipeline
// on one document, with caching.
func (r *Runner) Convert(ctx context.Context, in Input, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := r.hooks()
	hooks.OnConvertStart(ctx, in.Name)
	defer func() {
		var shapes, connectors int
		if result != nil {
			shapes, connectors = result.Stats.Shapes, result.Stats.Connectors
		}
		hooks.OnConvertComplete(ctx, in.Name, shapes, connectors, time.Since(start), err)
	}()

	// The file name can supply the diagram name, so it is part of the key.
	fallbackName := diagram.DisplayName(in.Name)
	inputHash := cache.Hash(append([]byte(fallbackName+"\x00"), in.Data...))
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, inputHash, opts); ok {
			cached.Name = in.Name
			r.Logger.Debug("cache hit", "file", in.Name)
			return cached, nil
		}
	}

	result = &Result{Name: in.Name}

	// Stage 1: Parse
	t := time.Now()
	doc, err := bpmn.Parse(in.Data)
	result.Stats.ParseTime = time.Since(t)
	hooks.OnStage(ctx, in.Name, observability.StageParse, result.Stats.ParseTime, err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	t = time.Now()
	d, stats, err := diagram.Build(doc, diagram.BuildOptions{FallbackName: fallbackName})
	result.Stats.BuildTime = time.Since(t)
	hooks.OnStage(ctx, in.Name, observability.StageBuild, result.Stats.BuildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Diagram = d
	result.Stats.Elements = stats.Elements
	result.Stats.Flows = stats.Flows
	result.Stats.SkippedShapes = stats.SkippedShapes
	result.Stats.SkippedFlows = stats.SkippedFlows
	result.Stats.Warnings = append(result.Stats.Warnings, stats.Warnings...)
	for _, s := range stats.Skips {
		opts.Logger.Warn("skipped", "file", in.Name, "id", s.ID, "reason", s.Reason)
	}

	// Stage 3: Synthesize
	t = time.Now()
	dr := shape.Synthesize(d, d.Transform(opts.GeomOptions()), opts.Palette)
	result.Stats.SynthTime = time.Since(t)
	hooks.OnStage(ctx, in.Name, observability.StageSynthesize, result.Stats.SynthTime, nil)
	result.Drawing = dr
	result.Stats.Shapes = len(dr.Shapes)
	result.Stats.Connectors = len(dr.Connectors)
	result.Stats.PageWidth = dr.PageWidth
	result.Stats.PageHeight = dr.PageHeight
	result.Stats.Warnings = append(result.Stats.Warnings, dr.Warnings...)
	for _, w := range dr.Warnings {
		opts.Logger.Warn(w, "file", in.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Render
	t = time.Now()
	artifacts, err := Render(dr, opts)
	result.Stats.RenderTime = time.Since(t)
	hooks.OnStage(ctx, in.Name, observability.StageRender, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	r.store(ctx, inputHash, opts, result)

	r.Logger.Info("converted",
		"file", in.Name,
		"shapes", result.Stats.Shapes,
		"connectors", result.Stats.Connectors,
		"skipped", result.Stats.SkippedShapes+result.Stats.SkippedFlows,
		"duration", time.Since(start))

	return result, nil
}

// lookup returns a result assembled from the cache when the stats entry
// and every requested format are present.
func (r *Runner) lookup(ctx context.Context, inputHash string, opts Options) (*Result, bool) {
	get := func(format string) ([]byte, bool) {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, format)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, format)
		return data, true
	}

	data, ok := get(statsFormat)
	if !ok {
		return nil, false
	}
	result := &Result{Artifacts: make(map[string][]byte, len(opts.Formats)), CacheHit: true}
	if err := json.Unmarshal(data, &result.Stats); err != nil {
		return nil, false
	}
	for _, format := range opts.Formats {
		data, ok := get(format)
		if !ok {
			return nil, false
		}
		result.Artifacts[format] = data
	}
	return result, true
}

// store writes every artifact and the stats entry. Cache failures are
// logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, inputHash string, opts Options, result *Result) {
	set := func(format string, data []byte) {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
			return
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	for format, data := range result.Artifacts {
		set(format, data)
	}
	// The stats entry marks a complete set, so it is written last.
	if data, err := json.Marshal(result.Stats); err == nil {
		set(statsFormat, data)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
