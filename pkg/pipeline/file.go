package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/observability"
)

// FileResult is the outcome of converting one file.
type FileResult struct {
	Input    string        `json:"input"`
	Outputs  []string      `json:"outputs,omitempty"`
	Stats    Stats         `json:"stats"`
	CacheHit bool          `json:"cache_hit,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Error returns the failure message, or "" on success.
func (f FileResult) Error() string {
	if f.Err == nil {
		return ""
	}
	return errors.UserMessage(f.Err)
}

// OutputPath returns where format is written for input: the input's stem
// with the format extension, in outDir or next to the input when outDir
// is empty.
func OutputPath(input, outDir, format string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, stem+"."+format)
}

// ConvertFile converts the file at path and writes one output per format.
// Outputs are written to temporary files and renamed into place only after
// every format rendered. If a rename fails, the outputs of this call already
// in place are removed again, so a failed conversion leaves no output behind.
func (r *Runner) ConvertFile(ctx context.Context, path, outDir string, opts Options) (FileResult, error) {
	start := time.Now()
	fr := FileResult{Input: path}
	fail := func(err error) (FileResult, error) {
		fr.Err = err
		fr.Duration = time.Since(start)
		return fr, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path))
		}
		return fail(errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path))
	}

	result, err := r.Convert(ctx, Input{Name: filepath.Base(path), Data: data}, opts)
	if err != nil {
		return fail(err)
	}
	fr.Stats = result.Stats
	fr.CacheHit = result.CacheHit

	t := time.Now()
	outputs, err := writeOutputs(path, outDir, opts.formats(), result.Artifacts)
	r.hooks().OnStage(ctx, filepath.Base(path), observability.StageWrite, time.Since(t), err)
	if err != nil {
		return fail(err)
	}
	fr.Outputs = outputs
	fr.Duration = time.Since(start)
	return fr, nil
}

// formats returns the requested formats, or the default.
func (o Options) formats() []string {
	if len(o.Formats) == 0 {
		return []string{FormatVSDX}
	}
	return o.Formats
}

func writeOutputs(input, outDir string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
		}
	}

	type pending struct{ tmp, final string }
	var staged []pending
	cleanup := func() {
		for _, p := range staged {
			os.Remove(p.tmp)
		}
	}

	for _, format := range formats {
		final := OutputPath(input, outDir, format)
		tmp, err := os.CreateTemp(filepath.Dir(final), "."+filepath.Base(final)+".*")
		if err != nil {
			cleanup()
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", final)
		}
		staged = append(staged, pending{tmp.Name(), final})
		_, werr := tmp.Write(artifacts[format])
		cerr := tmp.Close()
		if werr != nil || cerr != nil {
			cleanup()
			if werr == nil {
				werr = cerr
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, werr, "write %s", final)
		}
	}

	outputs := make([]string, 0, len(staged))
	for i, p := range staged {
		if err := os.Rename(p.tmp, p.final); err != nil {
			for _, rest := range staged[i:] {
				os.Remove(rest.tmp)
			}
			for _, placed := range outputs {
				os.Remove(placed)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p.final)
		}
		outputs = append(outputs, p.final)
	}
	return outputs, nil
}

// =============================================================================
// Batch
// =============================================================================

// BatchOptions configures [Runner.Batch].
type BatchOptions struct {
	// Workers bounds concurrent conversions; default DefaultWorkers.
	Workers int

	// Root is the directory the paths were discovered under. When set and
	// an output directory is given, each file's outputs keep their
	// directory relative to Root, so inputs with equal names in different
	// directories do not overwrite each other.
	Root string

	// OnFile is called once per finished file, from worker goroutines but
	// never concurrently.
	OnFile func(FileResult)
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	// Files are in input order.
	Files     []FileResult  `json:"files"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Failures returns the failed files, in input order.
func (b BatchResult) Failures() []FileResult {
	var out []FileResult
	for _, f := range b.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Batch converts every path. A failing file is recorded and the batch
// continues; only cancellation of ctx stops it early, in which case files
// not yet started are reported with the context error.
func (r *Runner) Batch(ctx context.Context, paths []string, outDir string, opts Options, bopts BatchOptions) BatchResult {
	start := time.Now()
	workers := bopts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	files := make([]FileResult, len(paths))
	dirs, conflicts := planOutputs(paths, outDir, bopts.Root, opts.formats())
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			var fr FileResult
			switch {
			case conflicts[i] != nil:
				fr = FileResult{Input: path, Err: conflicts[i]}
			case gctx.Err() != nil:
				fr = FileResult{Input: path, Err: gctx.Err()}
			default:
				fr, _ = r.ConvertFile(gctx, path, dirs[i], opts)
			}
			if fr.Err != nil {
				r.Logger.Error("conversion failed", "file", path, "err", errors.UserMessage(fr.Err))
			}

			mu.Lock()
			defer mu.Unlock()
			files[i] = fr
			if bopts.OnFile != nil {
				bopts.OnFile(fr)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Files: files, Duration: time.Since(start)}
	for _, f := range files {
		if f.Err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	return res
}

// planOutputs picks each file's output directory and rejects any file whose
// outputs would replace those of an earlier file in the batch.
func planOutputs(paths []string, outDir, root string, formats []string) ([]string, []error) {
	dirs := make([]string, len(paths))
	conflicts := make([]error, len(paths))
	owner := make(map[string]string)

	for i, path := range paths {
		dirs[i] = batchOutDir(path, outDir, root)

		outs := make([]string, len(formats))
		for j, format := range formats {
			outs[j] = filepath.Clean(OutputPath(path, dirs[i], format))
			if prev, ok := owner[outs[j]]; ok && conflicts[i] == nil {
				conflicts[i] = errors.New(errors.ErrCodeInvalidPath,
					"output %s is already written by %s", outs[j], prev)
			}
		}
		if conflicts[i] != nil {
			continue
		}
		for _, out := range outs {
			owner[out] = path
		}
	}
	return dirs, conflicts
}

// batchOutDir mirrors path's directory below root into outDir. Paths outside
// root, or an empty root, use outDir itself.
func batchOutDir(path, outDir, root string) string {
	if outDir == "" || root == "" {
		return outDir
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return outDir
	}
	return filepath.Join(outDir, rel)
}

// =============================================================================
// Discovery
// =============================================================================

// Extensions are the file extensions Discover treats as BPMN documents.
var Extensions = []string{".bpmn", ".bpmn2", ".xml"}

// IsBPMNFile reports whether path has a BPMN file extension.
func IsBPMNFile(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Discover returns the BPMN files under root, sorted. Hidden directories
// are skipped. A root that is itself a file is returned as is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "discover %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "discover %s", root)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsBPMNFile(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "discover %s", root)
	}
	slices.Sort(out)
	return out, nil
}
