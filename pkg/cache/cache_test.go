package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("vsdx bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v, want hit", hit, err)
	}
	if string(data) != "vsdx bytes" {
		t.Errorf("Get(k) = %q, want %q", data, "vsdx bytes")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of a missing key error: %v", err)
	}
}

func TestFileCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get(corrupt) = hit %v, err %v, want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s) error: %v", k, err)
		}
	}
	stray := filepath.Join(c.Dir(), "notes.txt")
	if err := os.WriteFile(stray, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	if _, err := os.Stat(stray); err != nil {
		t.Errorf("Clear removed a file it did not write: %v", err)
	}
}

func TestFileCacheRawValue(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	value := []byte("PK\x03\x04 binary")
	if err := c.Set(context.Background(), "k", value, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	info, err := os.Stat(c.path("k"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := info.Size(), int64(entryHeaderLen+len(value)); got != want {
		t.Errorf("entry size = %d, want %d", got, want)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache error: %v", err)
	}
	defer c.Close()

	src := []byte("one")
	_ = c.Set(ctx, "1", src, 0)
	src[0] = 'X'
	data, hit, _ := c.Get(ctx, "1")
	if !hit || string(data) != "one" {
		t.Errorf("Get(1) = %q, %v, want one, true", data, hit)
	}

	_ = c.Set(ctx, "2", []byte("two"), 0)
	// Touching "1" leaves "2" as the eviction candidate.
	_, _, _ = c.Get(ctx, "1")
	_ = c.Set(ctx, "3", []byte("three"), 0)
	if _, hit, _ := c.Get(ctx, "2"); hit {
		t.Error("least recently used entry should be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(0)
	if err != nil {
		t.Fatalf("NewMemoryCache error: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after expiry", c.Len())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := ArtifactKeyOpts{Format: "vsdx", PPI: 96, Margin: 50}

	key := k.ArtifactKey("hash123", base)
	if !strings.HasPrefix(key, "artifact:vsdx:") {
		t.Errorf("ArtifactKey() = %s, want artifact:vsdx: prefix", key)
	}
	if key != k.ArtifactKey("hash123", base) {
		t.Error("ArtifactKey should be deterministic")
	}

	tests := []struct {
		name   string
		modify func(*ArtifactKeyOpts)
	}{
		{"format", func(o *ArtifactKeyOpts) { o.Format = "svg" }},
		{"ppi", func(o *ArtifactKeyOpts) { o.PPI = 72 }},
		{"margin", func(o *ArtifactKeyOpts) { o.Margin = 0 }},
		{"palette", func(o *ArtifactKeyOpts) { o.Palette = "abc" }},
		{"version", func(o *ArtifactKeyOpts) { o.Version = "v2" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.modify(&opts)
			if k.ArtifactKey("hash123", opts) == key {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
	if k.ArtifactKey("hash456", base) == key {
		t.Error("different input hashes should produce different keys")
	}
}
