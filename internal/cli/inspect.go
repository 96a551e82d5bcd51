package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mgabr90/bpmn-to-visio/pkg/bpmn"
	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/nodelink"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	dot      bool   // print Graphviz DOT instead of the summary
	graph    string // render the flow graph to this file (.svg, .pdf, .png)
	asJSON   bool   // print the diagram model as JSON
	detailed bool   // kind, tag and id in graph labels
	topDown  bool   // top-to-bottom graph layout
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show what a BPMN file contains and what would be drawn",
		Long: `Inspect parses a BPMN file and prints the diagram model: element and flow
counts per kind, the drawing extent, and every shape or flow that would be
skipped with its reason. --dot and --graph show the flow graph instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the flow graph as Graphviz DOT")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "render the flow graph to a file (.svg, .pdf or .png)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the diagram model as JSON")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show kind, tag and id in graph labels")
	cmd.Flags().BoolVar(&opts.topDown, "top-down", false, "lay the graph out top to bottom")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts inspectOpts) error {
	logger := log.FromContext(ctx)

	doc, err := bpmn.ParseFile(path)
	if err != nil {
		return err
	}
	d, stats, err := diagram.Build(doc, diagram.BuildOptions{FallbackName: diagram.DisplayName(path)})
	if err != nil {
		return err
	}
	logger.Debug("built diagram", "elements", stats.Elements, "flows", stats.Flows)

	switch {
	case opts.asJSON:
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case opts.dot:
		_, err := fmt.Fprint(c.Out, nodelink.ToDOT(d, nodelink.Options{Detailed: opts.detailed, TopDown: opts.topDown}))
		return err
	case opts.graph != "":
		return c.writeGraph(d, opts)
	}

	printInspect(c, d, stats)
	return nil
}

func (c *CLI) writeGraph(d *diagram.Diagram, opts inspectOpts) error {
	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: opts.detailed, TopDown: opts.topDown})

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(opts.graph)); ext {
	case ".svg":
		data, err = nodelink.RenderSVG(dot)
	case ".pdf":
		data, err = nodelink.RenderPDF(dot)
	case ".png":
		data, err = nodelink.RenderPNG(dot, c.config().Output.PNGScale)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q (want .svg, .pdf or .png)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render graph")
	}
	if err := os.WriteFile(opts.graph, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.graph)
	}
	printSuccess(c.Out, "Graph written")
	printFile(c.Out, opts.graph)
	return nil
}

func printInspect(c *CLI, d *diagram.Diagram, stats diagram.Stats) {
	w := c.Out
	fmt.Fprintln(w, StyleTitle.Render(d.Name))
	printKeyValue(w, "Elements", StyleNumber.Render(fmt.Sprint(stats.Elements)))
	for _, line := range countKinds(d) {
		printDetail(w, "%s", line)
	}
	printKeyValue(w, "Flows", StyleNumber.Render(fmt.Sprint(stats.Flows)))
	for _, line := range countFlowKinds(d) {
		printDetail(w, "%s", line)
	}
	ext := d.Extent
	printKeyValue(w, "Extent", fmt.Sprintf("%.0f×%.0f px at (%.0f, %.0f)", ext.Width, ext.Height, ext.X, ext.Y))
	if stats.ExtraPlanes > 0 {
		printWarning(w, "%d additional diagram plane(s) ignored", stats.ExtraPlanes)
	}
	for _, s := range stats.Skips {
		printWarning(w, "skipped %s: %s", s.ID, s.Reason)
	}
	for _, warn := range stats.Warnings {
		printWarning(w, "%s", warn)
	}
}

// countKinds returns "Kind: n" lines for every element kind present.
func countKinds(d *diagram.Diagram) []string {
	counts := make(map[string]int)
	for _, e := range d.Elements {
		counts[e.Kind.String()]++
	}
	return sortedCounts(counts)
}

func countFlowKinds(d *diagram.Diagram) []string {
	counts := make(map[string]int)
	for _, f := range d.Flows {
		counts[f.Kind.String()]++
	}
	return sortedCounts(counts)
}

func sortedCounts(counts map[string]int) []string {
	lines := make([]string, 0, len(counts))
	for k, n := range counts {
		lines = append(lines, fmt.Sprintf("%s: %d", k, n))
	}
	slices.Sort(lines)
	return lines
}
