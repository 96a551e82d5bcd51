// Package observability lets callers watch conversions without the converter
// packages depending on any metrics or tracing backend.
//
// Two hook sets exist. [PipelineHooks] sees each file start, each stage
// finish and each file complete. [CacheHooks] sees artifact cache hits,
// misses and writes. Both default to no-ops. [LogHooks] implements both and
// writes debug records through charmbracelet/log:
//
//	observability.SetCacheHooks(observability.NewLogHooks(logger))
//	runner.Hooks = observability.NewLogHooks(logger)
//
// A [pipeline.Runner] with nil Hooks falls back to [Pipeline].
//
// [pipeline.Runner]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/pipeline#Runner
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Conversion stages reported through [PipelineHooks.OnStage].
const (
	StageParse      = "parse"
	StageBuild      = "build"
	StageSynthesize = "synthesize"
	StageRender     = "render"
	StageWrite      = "write"
)

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	OnConvertStart(ctx context.Context, name string)
	OnStage(ctx context.Context, name, stage string, duration time.Duration, err error)
	OnConvertComplete(ctx context.Context, name string, shapes, connectors int, duration time.Duration, err error)
}

// CacheHooks receives artifact cache events, keyed by output format.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnConvertStart(context.Context, string)                        {}
func (NoopPipelineHooks) OnStage(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// LogHooks reports pipeline events to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnConvertStart(_ context.Context, name string) {
	h.logger.Debug("convert start", "file", name)
}

func (h *LogHooks) OnStage(_ context.Context, name, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "file", name, "stage", stage, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage done", "file", name, "stage", stage, "duration", d)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, name string, shapes, connectors int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("convert failed", "file", name, "duration", d, "err", err)
		return
	}
	h.logger.Debug("convert done", "file", name, "shapes", shapes, "connectors", connectors, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, format string) {
	h.logger.Debug("artifact cached", "format", format)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, format string) {
	h.logger.Debug("artifact not cached", "format", format)
}

func (h *LogHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.logger.Debug("artifact stored", "format", format, "bytes", size)
}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks replaces the process-wide pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks replaces the process-wide cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset installs the no-op hooks again.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
