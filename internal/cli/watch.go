package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
	"github.com/Mgabr90/bpmn-to-visio/pkg/watch"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	output  string
	formats string
	noCache bool
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [file|dir...]",
		Short: "Reconvert BPMN files whenever they change",
		Long: `Watch converts the given files (or the BPMN files in the given
directories) once, then again every time one is saved. Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to each input)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): vsdx (default), svg, pdf, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, targets []string, flags watchOpts) error {
	logger := log.FromContext(ctx)

	opts, err := c.pipelineOptions(flags.formats, "", 0, 0, false)
	if err != nil {
		return err
	}
	outDir := flags.output
	if outDir == "" {
		outDir = c.config().Output.Dir
	}
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	w, err := watch.New(0)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Filter = pipeline.IsBPMNFile
	w.OnChange = func(ctx context.Context, path string) error {
		lap := stopwatch(logger)
		fr, err := runner.ConvertFile(ctx, path, outDir, opts)
		printFileResult(c.Out, fr)
		if err == nil {
			lap("Converted " + filepath.Base(path))
		}
		return err
	}
	w.OnError = func(path string, err error) {
		logger.Debug("watch error", "file", path, "err", errors.UserMessage(err))
	}

	var initial []string
	for _, target := range targets {
		if err := w.Add(target); err != nil {
			return err
		}
		files, err := watchedFiles(target)
		if err != nil {
			return err
		}
		initial = append(initial, files...)
	}

	for _, path := range initial {
		fr, _ := runner.ConvertFile(ctx, path, outDir, opts)
		printFileResult(c.Out, fr)
	}
	printInfo(c.Out, "Watching %d target(s) for changes", len(targets))

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// watchedFiles lists the BPMN files directly covered by target.
func watchedFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", target)
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", target)
	}
	var files []string
	for _, e := range entries {
		p := filepath.Join(target, e.Name())
		if !e.IsDir() && pipeline.IsBPMNFile(p) {
			files = append(files, p)
		}
	}
	return files, nil
}
