// Package cache stores rendered conversion artifacts keyed by input content
// and conversion settings.
//
// # Overview
//
// Converting a BPMN file is deterministic: the same bytes converted with the
// same settings always produce the same VSDX package. The converter uses
// this to skip work in batch and watch mode. A [Cache] maps string keys to
// byte slices with an optional TTL; a [Keyer] builds those keys.
//
// # Implementations
//
//   - [FileCache]: entries stored as files under a directory, for the CLI
//   - [MemoryCache]: a bounded in-process LRU, for watch mode and tests
//   - [NullCache]: never stores anything (caching disabled)
//
// # Keys
//
// Keys are namespaced by stage and contain a SHA-256 of everything that
// affects the output:
//
//	key := keyer.ArtifactKey(cache.Hash(input), cache.ArtifactKeyOpts{Format: "vsdx", PPI: 96})
package cache

import (
	"context"
	"time"
)

// Cache stores byte values by key.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLs by entry kind.
const (
	// TTLArtifact applies to rendered outputs. Artifacts depend only on the
	// key, so they expire just to bound disk usage.
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered format of one input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	PPI           float64 `json:"ppi"`
	Margin        float64 `json:"margin"`
	MinPageWidth  float64 `json:"min_page_width"`
	MinPageHeight float64 `json:"min_page_height"`
	PageName      string  `json:"page_name,omitempty"`

	// Palette is a fingerprint of the colour palette in use.
	Palette string `json:"palette,omitempty"`

	// Version is the converter version; a new release never reuses
	// artifacts from an older one.
	Version string `json:"version,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, inputHash, opts)
}
