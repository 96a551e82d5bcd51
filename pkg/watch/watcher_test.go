package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

func startWatcher(t *testing.T, w *Watcher) <-chan string {
	t.Helper()
	changed := make(chan string, 16)
	w.OnChange = func(_ context.Context, path string) error {
		changed <- path
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return changed
}

func waitFor(t *testing.T, changed <-chan string) string {
	t.Helper()
	select {
	case p := <-changed:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return ""
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.bpmn")
	if err := os.WriteFile(path, []byte("<a/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	changed := startWatcher(t, w)

	// A sibling file in the same directory is not watched.
	if err := os.WriteFile(filepath.Join(dir, "other.bpmn"), []byte("<b/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<a>changed</a>"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := waitFor(t, changed)
	if filepath.Base(got) != "order.bpmn" {
		t.Errorf("changed = %q, want order.bpmn", got)
	}
}

func TestWatchDirFilter(t *testing.T) {
	dir := t.TempDir()
	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	w.Filter = func(p string) bool { return strings.HasSuffix(p, ".bpmn") }
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	changed := startWatcher(t, w)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "new.bpmn"), []byte("<a/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := waitFor(t, changed); filepath.Base(got) != "new.bpmn" {
		t.Errorf("changed = %q, want new.bpmn", got)
	}
}

func TestWatchOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bpmn")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	failed := make(chan error, 4)
	w.OnError = func(_ string, err error) { failed <- err }
	w.OnChange = func(context.Context, string) error {
		return errors.New(errors.ErrCodeMalformedXML, "broken")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	if err := os.WriteFile(path, []byte("<"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-failed:
		if !errors.Is(err, errors.ErrCodeMalformedXML) {
			t.Errorf("OnError got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnError not called")
	}
}

func TestAddMissing(t *testing.T) {
	w, err := New(0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Close()

	err = w.Add(filepath.Join(t.TempDir(), "missing.bpmn"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Add(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestRunCanceled(t *testing.T) {
	w, err := New(0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
