package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the element kind, source tag and id to node labels.
	// When false, only the label (or the id of unlabelled elements) is shown.
	Detailed bool

	// TopDown lays the flow out top to bottom instead of left to right.
	TopDown bool
}

// ToDOT converts a diagram to Graphviz DOT format. Pools and lanes become
// nested clusters; a pool with no content becomes a plain box so message
// flows can reach it. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(d *diagram.Diagram, opts Options) string {
	w := dotWriter{d: d, opts: opts, anchors: make(map[string]string)}
	w.planAnchors()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.TopDown {
		buf.WriteString("  rankdir=TB;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
	}
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, e := range d.Elements {
		if e.ParentID == "" {
			w.writeElement(&buf, e, "  ")
		}
	}

	buf.WriteString("\n")
	for _, f := range d.Flows {
		w.writeFlow(&buf, f)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	d    *diagram.Diagram
	opts Options

	// anchors maps a non-empty container to a node inside it, for edges
	// that start or end on the container itself.
	anchors map[string]string
}

func (w *dotWriter) isCluster(e diagram.Element) bool {
	return e.Kind.IsContainer() && len(w.d.Children(e.ID)) > 0
}

func (w *dotWriter) planAnchors() {
	for _, e := range w.d.Elements {
		if w.isCluster(e) {
			if a, ok := w.firstLeaf(e.ID); ok {
				w.anchors[e.ID] = a
			}
		}
	}
}

func (w *dotWriter) firstLeaf(id string) (string, bool) {
	for _, c := range w.d.Children(id) {
		if !w.isCluster(c) {
			return c.ID, true
		}
		if a, ok := w.firstLeaf(c.ID); ok {
			return a, true
		}
	}
	return "", false
}

func (w *dotWriter) writeElement(buf *bytes.Buffer, e diagram.Element, indent string) {
	if !w.isCluster(e) {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, e.ID, strings.Join(fmtAttrs(e, fmtLabel(e, w.opts.Detailed)), ", "))
		return
	}
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, clusterName(e.ID))
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, fmtLabel(e, w.opts.Detailed))
	if e.Kind == diagram.KindPool {
		fmt.Fprintf(buf, "%s  style=\"filled\";\n%s  fillcolor=%q;\n", indent, indent, fillOr(e.Fill, "#F5F5F5"))
	} else {
		fmt.Fprintf(buf, "%s  style=\"dashed\";\n", indent)
	}
	for _, c := range w.d.Children(e.ID) {
		w.writeElement(buf, c, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func (w *dotWriter) writeFlow(buf *bytes.Buffer, f diagram.Flow) {
	from, ltail, okF := w.endpoint(f.SourceRef)
	to, lhead, okT := w.endpoint(f.TargetRef)
	if !okF || !okT {
		return
	}

	var attrs []string
	if f.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", f.Label))
	}
	switch f.Kind {
	case diagram.FlowMessage:
		attrs = append(attrs, "style=dashed", "arrowhead=empty", "arrowtail=odot", "dir=both", "constraint=false")
	case diagram.FlowAssociation:
		attrs = append(attrs, "style=dotted", "arrowhead=none")
	}
	if ltail != "" {
		attrs = append(attrs, fmt.Sprintf("ltail=%q", ltail))
	}
	if lhead != "" {
		attrs = append(attrs, fmt.Sprintf("lhead=%q", lhead))
	}

	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %q -> %q;\n", from, to)
		return
	}
	fmt.Fprintf(buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
}

// endpoint resolves a flow end to a node id, plus the cluster it should be
// clipped to when the element is drawn as a cluster.
func (w *dotWriter) endpoint(id string) (node, cluster string, ok bool) {
	e, found := w.d.Element(id)
	if !found {
		return "", "", false
	}
	if !w.isCluster(e) {
		return id, "", true
	}
	a, found := w.anchors[id]
	if !found {
		return "", "", false
	}
	return a, clusterName(id), true
}

func clusterName(id string) string { return "cluster_" + id }

func fmtLabel(e diagram.Element, detailed bool) string {
	label := e.Label
	if label == "" {
		label = e.ID
	}
	if !detailed {
		return label
	}
	return label + "\n" + e.Kind.String() + " (" + e.Tag + ")\nid: " + e.ID
}

func fmtAttrs(e diagram.Element, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case e.Kind.IsEvent():
		attrs = append(attrs, "shape=circle", "style=filled", "fixedsize=true", "width=0.5")
		// The label sits outside a fixed-size circle.
		attrs[0] = fmt.Sprintf("xlabel=%q", label)
		attrs = append(attrs, `label=""`)
		if e.Kind == diagram.KindEndEvent {
			attrs = append(attrs, "penwidth=3")
		}
		if e.Kind == diagram.KindIntermediateEvent {
			attrs = append(attrs, "peripheries=2")
		}
	case e.Kind.IsGateway():
		attrs = append(attrs, "shape=diamond", "style=filled", "fixedsize=true", "width=0.6", "height=0.6")
		attrs[0] = fmt.Sprintf("xlabel=%q", label)
		attrs = append(attrs, fmt.Sprintf("label=%q", gatewayGlyph(e.Kind)))
	case e.Kind == diagram.KindSubProcess:
		attrs = append(attrs, "style=\"rounded,filled,bold\"")
	case e.Kind == diagram.KindTextAnnotation:
		attrs = append(attrs, "shape=note", "style=filled", "fillcolor=white")
	case e.Kind.IsContainer():
		attrs = append(attrs, "style=filled", "fillcolor=\"#F5F5F5\"")
	}
	if e.Fill != "" && e.Kind != diagram.KindTextAnnotation {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", e.Fill))
	}
	if e.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Stroke))
	}
	return attrs
}

func gatewayGlyph(k diagram.Kind) string {
	switch k {
	case diagram.KindExclusiveGateway:
		return "X"
	case diagram.KindParallelGateway:
		return "+"
	case diagram.KindInclusiveGateway:
		return "O"
	}
	return ""
}

func fillOr(fill, def string) string {
	if fill != "" {
		return fill
	}
	return def
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
