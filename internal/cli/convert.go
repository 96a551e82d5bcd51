package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
	"github.com/Mgabr90/bpmn-to-visio/pkg/report"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output   string // output directory; empty writes next to each input
	formats  string // comma-separated formats
	batch    string // directory to convert recursively
	workers  int
	report   string // batch report path (.xlsx, .json, .csv)
	pageName string
	ppi      float64
	margin   float64
	noCache  bool
	refresh  bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert BPMN files to Visio drawings",
		Long: `Convert one or more BPMN 2.0 files to .vsdx (and optionally svg, pdf, png
or json). With --batch every BPMN file under a directory is converted;
failing files are reported and the rest are still written.

The exit status is non-zero if any file failed.`,
		Example: `  bpmn2vsdx convert order.bpmn
  bpmn2vsdx convert order.bpmn -f vsdx,svg -o out/
  bpmn2vsdx convert --batch diagrams/ --workers 8 --report summary.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.batch == "" {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to convert: pass a file or --batch DIR")
			}
			return c.runConvert(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to each input)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): vsdx (default), svg, pdf, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.batch, "batch", "", "convert every BPMN file under this directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent conversions in batch mode")
	cmd.Flags().StringVar(&opts.report, "report", "", "write a batch report (.xlsx, .json or .csv)")
	cmd.Flags().StringVar(&opts.pageName, "page-name", "", "Visio page name (default: diagram name)")
	cmd.Flags().Float64Var(&opts.ppi, "ppi", 0, "source pixels per inch")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "page margin in source pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and reconvert")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagDirname("batch")
	_ = cmd.MarkFlagDirname("output")

	return cmd
}

// pipelineOptions merges flags over the loaded configuration.
func (c *CLI) pipelineOptions(formats, pageName string, ppi, margin float64, refresh bool) (pipeline.Options, error) {
	opts := pipeline.Options{
		PageName: pageName,
		PPI:      ppi,
		Margin:   margin,
		Refresh:  refresh,
		Logger:   c.Logger,
	}
	if formats != "" {
		f, err := pipeline.ParseFormats(formats)
		if err != nil {
			return opts, err
		}
		opts.Formats = f
	}
	c.config().Apply(&opts)
	return opts, opts.ValidateAndSetDefaults()
}

func (c *CLI) runConvert(ctx context.Context, args []string, flags convertOpts) error {
	opts, err := c.pipelineOptions(flags.formats, flags.pageName, flags.ppi, flags.margin, flags.refresh)
	if err != nil {
		return err
	}
	cfg := c.config()
	outDir := flags.output
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	paths := append([]string(nil), args...)
	if flags.batch != "" {
		found, err := pipeline.Discover(flags.batch)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "no BPMN files found under %s", flags.batch)
		}
		paths = append(paths, found...)
	}

	if len(paths) == 1 && flags.batch == "" && flags.report == "" {
		return c.convertOne(ctx, runner, paths[0], outDir, opts)
	}

	workers := flags.workers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}
	reportPath := flags.report
	if reportPath == "" {
		reportPath = cfg.Batch.Report
	}
	return c.convertBatch(ctx, runner, paths, pipeline.BatchOptions{Root: flags.batch, Workers: workers}, outDir, opts, reportPath)
}

func (c *CLI) convertOne(ctx context.Context, runner *pipeline.Runner, path, outDir string, opts pipeline.Options) error {
	spinner := newSpinner(ctx, c.Err, "Converting "+path)
	spinner.Start()
	fr, err := runner.ConvertFile(ctx, path, outDir, opts)
	spinner.Stop()

	printFileResult(c.Out, fr)
	return err
}

func (c *CLI) convertBatch(ctx context.Context, runner *pipeline.Runner, paths []string, bopts pipeline.BatchOptions, outDir string, opts pipeline.Options, reportPath string) error {
	logger := log.FromContext(ctx)
	logger.Info("converting", "files", len(paths), "workers", bopts.Workers)

	bar := newProgressBar(c.Err, len(paths), "Converting")
	bopts.OnFile = func(fr pipeline.FileResult) {
		_ = bar.Add(1)
	}
	result := runner.Batch(ctx, paths, outDir, opts, bopts)
	_ = bar.Finish()

	for _, fr := range result.Files {
		printFileResult(c.Out, fr)
	}
	printSummary(c.Out, result)

	if reportPath != "" {
		if err := report.Write(reportPath, result); err != nil {
			return err
		}
		printInfo(c.Out, "Report written to %s", reportPath)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if result.Failed > 0 {
		return errors.New(batchFailureCode(result.Failures()), "%d of %d files failed to convert", result.Failed, len(result.Files))
	}
	return nil
}

// batchFailureCode is INVALID_INPUT when every failure was an input defect
// and INTERNAL_ERROR otherwise.
func batchFailureCode(failures []pipeline.FileResult) errors.Code {
	for _, f := range failures {
		if !errors.IsInputDefect(f.Err) {
			return errors.ErrCodeInternal
		}
	}
	return errors.ErrCodeInvalidInput
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
