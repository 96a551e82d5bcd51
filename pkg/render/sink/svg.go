package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	ppi        float64
	background string
}

// WithSVGScale sets the SVG pixels per page inch (default 96).
func WithSVGScale(ppi float64) SVGOption { return func(r *svgRenderer) { r.ppi = ppi } }

// WithBackground fills the page before drawing. Empty leaves it transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG draws the drawing as a standalone SVG document. Page inches are
// scaled to pixels and the y axis is flipped.
func RenderSVG(dr *shape.Drawing, opts ...SVGOption) []byte {
	r := svgRenderer{ppi: geom.DefaultPPI, background: "#FFFFFF"}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := dr.PageWidth*r.ppi, dr.PageHeight*r.ppi
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	if dr.Name != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(dr.Name))
	}

	for _, s := range dr.Shapes {
		r.renderShape(&buf, dr.PageHeight, s)
	}
	for _, c := range dr.Connectors {
		r.renderConnector(&buf, dr.PageHeight, c)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderShape(buf *bytes.Buffer, pageH float64, s shape.Shape) {
	origin := geom.Point{X: s.Bounds.X, Y: s.Bounds.Y}
	toPx := func(x, y float64) (float64, float64) {
		return (origin.X + x) * r.ppi, (pageH - origin.Y - y) * r.ppi
	}

	fmt.Fprintf(buf, `  <g id="%s">`+"\n", html.EscapeString(s.ID))
	for i, p := range s.Geometry {
		if i == 0 && s.Primitive == shape.PrimitiveRoundedRect && s.Style.Rounding > 0 {
			x, y := toPx(0, s.Bounds.Height)
			fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" %s/>`+"\n",
				x, y, s.Bounds.Width*r.ppi, s.Bounds.Height*r.ppi, s.Style.Rounding*r.ppi, r.paint(p, s.Style, s.Style.Fill))
			continue
		}
		r.renderPath(buf, p, s.Style, s.Style.Fill, toPx)
	}
	if s.Text != "" {
		tb := s.TextBlock
		x, y := toPx(tb.PinX, tb.PinY)
		r.renderText(buf, x, y, tb, s.Style, s.Text)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderConnector(buf *bytes.Buffer, pageH float64, c shape.Connector) {
	toPx := func(x, y float64) (float64, float64) { return x * r.ppi, (pageH - y) * r.ppi }

	fmt.Fprintf(buf, `  <g id="%s">`+"\n", html.EscapeString(c.FlowID))
	r.renderPath(buf, shape.RoundedPath(c.Route, shape.CornerRadius), c.Style, "", toPx)
	if c.Style.EndArrow {
		if head, ok := shape.ArrowHead(c.Route); ok {
			st := c.Style
			st.LinePattern = shape.LineSolid
			r.renderPath(buf, head, st, c.Style.Stroke, toPx)
		}
	}
	if c.Text != "" {
		tb := c.TextBox
		ctr := tb.Center()
		x, y := toPx(ctr.X, ctr.Y)
		r.renderText(buf, x, y, shape.TextBlock{Width: tb.Width, Height: tb.Height}, c.Style, c.Text)
	}
	buf.WriteString("  </g>\n")
}

// renderPath writes p as an SVG path. Ellipse rows become <ellipse>
// elements; arcs become quadratic curves through the arc midpoint.
func (r *svgRenderer) renderPath(buf *bytes.Buffer, p shape.Path, st shape.Style, fill string, toPx func(x, y float64) (float64, float64)) {
	paint := r.paint(p, st, fill)
	var d strings.Builder
	var cur geom.Point
	for _, seg := range p.Segments {
		x, y := toPx(seg.X, seg.Y)
		switch seg.Op {
		case shape.OpMoveTo:
			fmt.Fprintf(&d, "M%.2f %.2f ", x, y)
		case shape.OpLineTo:
			fmt.Fprintf(&d, "L%.2f %.2f ", x, y)
		case shape.OpArcTo:
			ctl := shape.ArcControl(cur, seg)
			cx, cy := toPx(ctl.X, ctl.Y)
			fmt.Fprintf(&d, "Q%.2f %.2f %.2f %.2f ", cx, cy, x, y)
		case shape.OpEllipse:
			rx := math.Hypot(seg.A-seg.X, seg.B-seg.Y) * r.ppi
			ry := math.Hypot(seg.C-seg.X, seg.D-seg.Y) * r.ppi
			fmt.Fprintf(buf, `    <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" %s/>`+"\n", x, y, rx, ry, paint)
		}
		cur = geom.Point{X: seg.X, Y: seg.Y}
	}
	if d.Len() > 0 {
		fmt.Fprintf(buf, `    <path d="%s" %s/>`+"\n", strings.TrimSpace(d.String()), paint)
	}
}

func (r *svgRenderer) paint(p shape.Path, st shape.Style, fill string) string {
	if p.NoFill || fill == "" {
		fill = "none"
	}
	stroke := st.Stroke
	if p.NoLine || st.LinePattern == shape.LineNone || stroke == "" {
		stroke = "none"
	}
	attrs := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%.2f"`, fill, stroke, st.LineWeight*r.ppi)
	switch st.LinePattern {
	case shape.LineDash:
		attrs += ` stroke-dasharray="6 4"`
	case shape.LineDot:
		attrs += ` stroke-dasharray="2 3"`
	}
	return attrs
}

// renderText centres each line of text on (x, y) in pixels. The block
// angle is counter-clockwise in page space, so it is negated for SVG.
func (r *svgRenderer) renderText(buf *bytes.Buffer, x, y float64, tb shape.TextBlock, st shape.Style, text string) {
	size := st.FontSize * r.ppi / 72
	anchor := "middle"
	if st.Align == shape.AlignLeft {
		anchor = "start"
		x -= tb.Width * r.ppi / 2
		x += 2
	}
	color := st.FontColor
	if color == "" {
		color = "#333333"
	}
	lines := strings.Split(text, "\n")
	top := y - size*float64(len(lines)-1)/2

	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="Calibri, sans-serif" font-size="%.2f" fill="%s" text-anchor="%s" dominant-baseline="middle"`,
		x, top, size, color, anchor)
	if tb.Angle != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.2f %.2f %.2f)"`, -tb.Angle*180/math.Pi, x, y)
	}
	buf.WriteString(">")
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintf(buf, `<tspan x="%.2f">%s</tspan>`, x, html.EscapeString(line))
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2f">%s</tspan>`, x, size, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}
