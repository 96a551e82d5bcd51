package shape

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
)

// Font sizes in points.
const (
	fontEvent      = 6.0
	fontAnnotation = 7.0
	fontActivity   = 8.0
	fontContainer  = 9.0
	fontConnector  = 7.0
)

// Label shape sizing, in inches.
const (
	minLabelWidth   = 0.8
	minLabelHeight  = 0.25
	belowLabelGap   = 0.04
	belowLabelH     = 0.35
	minConnTextW    = 0.4
	minConnTextH    = 0.2
	defaultConnText = 1.0
)

// DefaultHeaderBand is the pool/lane header width in source pixels used
// when it cannot be derived from lane positions.
const DefaultHeaderBand = 30.0

type layer int

const (
	layerPool layer = iota
	layerLane
	layerNode
	layerAnnotation
)

type synth struct {
	d       *diagram.Diagram
	tr      geom.Transform
	pal     Palette
	headers map[string]float64 // element id -> header band, source px
	hidden  map[string]bool    // lanes not drawn
	clamped map[string]geom.Rect
	depth   map[string]int
	out     *Drawing
}

// Synthesize maps every element of d to shapes and every flow to a
// connector, all in page inches under tr. Zero palette fields take the
// default colours.
func Synthesize(d *diagram.Diagram, tr geom.Transform, p Palette) *Drawing {
	s := &synth{
		d:       d,
		tr:      tr,
		pal:     p.WithDefaults(),
		headers: make(map[string]float64),
		hidden:  make(map[string]bool),
		clamped: make(map[string]geom.Rect),
		depth:   make(map[string]int),
		out: &Drawing{
			Name:       d.Name,
			PageWidth:  tr.PageWidth,
			PageHeight: tr.PageHeight,
		},
	}
	s.planContainers()

	type layered struct {
		layer layer
		depth int
		order int
		shape Shape
	}
	var all []layered
	for i, e := range s.d.Elements {
		shapes := s.element(e)
		for _, sh := range shapes {
			all = append(all, layered{layerOf(e.Kind), s.depth[e.ID], i, sh})
		}
	}
	slices.SortStableFunc(all, func(a, b layered) int {
		if c := cmp.Compare(a.layer, b.layer); c != 0 {
			return c
		}
		if a.layer == layerLane {
			if c := cmp.Compare(a.depth, b.depth); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.order, b.order)
	})
	for _, l := range all {
		s.out.Shapes = append(s.out.Shapes, l.shape)
	}

	for _, f := range s.d.Flows {
		if c, ok := s.connector(f); ok {
			s.out.Connectors = append(s.out.Connectors, c)
		}
	}
	return s.out
}

func layerOf(k diagram.Kind) layer {
	switch k {
	case diagram.KindPool:
		return layerPool
	case diagram.KindLane:
		return layerLane
	case diagram.KindTextAnnotation:
		return layerAnnotation
	}
	return layerNode
}

func (s *synth) warnf(format string, args ...any) {
	s.out.Warnings = append(s.out.Warnings, fmt.Sprintf(format, args...))
}

// element dispatches on kind. Every kind has exactly one rendering.
func (s *synth) element(e diagram.Element) []Shape {
	switch e.Kind {
	case diagram.KindStartEvent, diagram.KindEndEvent, diagram.KindIntermediateEvent:
		return s.event(e)
	case diagram.KindTask:
		return []Shape{s.task(e)}
	case diagram.KindSubProcess:
		return []Shape{s.subProcess(e)}
	case diagram.KindExclusiveGateway, diagram.KindParallelGateway,
		diagram.KindInclusiveGateway, diagram.KindEventBasedGateway:
		return s.gateway(e)
	case diagram.KindPool:
		return []Shape{s.pool(e)}
	case diagram.KindLane:
		if sh, ok := s.lane(e); ok {
			return []Shape{sh}
		}
		return nil
	case diagram.KindTextAnnotation:
		return []Shape{s.annotation(e)}
	case diagram.KindUnknown:
	}
	s.warnf("%s: no rendering for kind %s", e.ID, e.Kind)
	return nil
}

// base builds the shape common to every kind: transformed bounds, resolved
// colours, line weight and a centred text block.
func (s *synth) base(e diagram.Element, prim Primitive) Shape {
	b := s.tr.Rect(e.Bounds)
	fill, stroke := s.pal.resolveColors(e, s.warnf)
	return Shape{
		ID:        e.ID,
		ElementID: e.ID,
		Kind:      e.Kind,
		Tag:       e.Tag,
		Primitive: prim,
		Bounds:    b,
		Style: Style{
			Fill:        fill,
			Stroke:      stroke,
			LineWeight:  lineWeight(e.Kind),
			LinePattern: LineSolid,
			FontColor:   s.pal.Text,
			Align:       AlignCenter,
		},
		Text:      e.Label,
		TextBlock: centered(b.Width, b.Height),
	}
}

// ====================================================================
// Flow nodes
// ====================================================================

func (s *synth) event(e diagram.Element) []Shape {
	sh := s.base(e, PrimitiveEllipse)
	sh.Style.FontSize = fontEvent
	w, h := sh.Bounds.Width, sh.Bounds.Height
	sh.Geometry = append([]Path{ellipsePath(w, h)}, eventMarker(e.EventDefinition, w, h)...)
	return s.withLabel(e, sh)
}

func (s *synth) task(e diagram.Element) Shape {
	sh := s.base(e, PrimitiveRoundedRect)
	w, h := sh.Bounds.Width, sh.Bounds.Height
	sh.Style.FontSize = fontActivity
	sh.Style.Rounding = math.Min(0.1, math.Min(w*0.1, h*0.1))
	sh.Geometry = []Path{rectPath(w, h)}
	return sh
}

func (s *synth) subProcess(e diagram.Element) Shape {
	sh := s.task(e)
	if !e.Expanded {
		sh.Geometry = append(sh.Geometry, collapsedMarker(sh.Bounds.Width)...)
	}
	return sh
}

func (s *synth) gateway(e diagram.Element) []Shape {
	sh := s.base(e, PrimitiveDiamond)
	sh.Style.FontSize = fontEvent
	w, h := sh.Bounds.Width, sh.Bounds.Height
	sh.Geometry = append([]Path{diamondPath(w, h)}, gatewayGlyph(e.Kind, w, h)...)
	return s.withLabel(e, sh)
}

func (s *synth) annotation(e diagram.Element) Shape {
	sh := s.base(e, PrimitiveBracket)
	sh.Style.FontSize = fontAnnotation
	sh.Style.Align = AlignLeft
	sh.Geometry = []Path{bracketPath(sh.Bounds.Width, sh.Bounds.Height)}
	return sh
}

// withLabel moves a named event or gateway's text into a separate
// text-only shape: at the DI label bounds when present, else centred below
// the shape. The outline shape keeps no text.
func (s *synth) withLabel(e diagram.Element, sh Shape) []Shape {
	if e.Label == "" {
		return []Shape{sh}
	}
	sh.Text = ""

	var box geom.Rect
	if e.LabelBounds != nil {
		box = grow(s.tr.Rect(*e.LabelBounds), minLabelWidth, minLabelHeight)
	} else {
		w := math.Max(sh.Bounds.Width*2.5, 1.2)
		c := sh.Bounds.Center()
		box = geom.Rect{
			X:      c.X - w/2,
			Y:      sh.Bounds.Y - belowLabelGap - belowLabelH,
			Width:  w,
			Height: belowLabelH,
		}
	}

	label := Shape{
		ID:        e.ID + LabelSuffix,
		ElementID: e.ID,
		Kind:      e.Kind,
		Tag:       e.Tag,
		Primitive: PrimitiveText,
		Bounds:    box,
		Style: Style{
			LinePattern: LineNone,
			FontSize:    fontEvent,
			FontColor:   s.pal.Text,
			Align:       AlignCenter,
		},
		Text:      e.Label,
		TextBlock: centered(box.Width, box.Height),
		Geometry:  []Path{textPath(box.Width, box.Height)},
		IsLabel:   true,
	}
	return []Shape{sh, label}
}

// grow enlarges r about its centre to at least minW × minH.
func grow(r geom.Rect, minW, minH float64) geom.Rect {
	c := r.Center()
	w, h := math.Max(r.Width, minW), math.Max(r.Height, minH)
	return geom.Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// ====================================================================
// Connectors
// ====================================================================

func (s *synth) connector(f diagram.Flow) (Connector, bool) {
	src, okS := s.endpoint(f.SourceRef)
	dst, okT := s.endpoint(f.TargetRef)
	if !okS || !okT {
		s.warnf("%s: endpoint not drawn", f.ID)
		return Connector{}, false
	}

	c := Connector{
		FlowID:   f.ID,
		Kind:     f.Kind,
		SourceID: f.SourceRef,
		TargetID: f.TargetRef,
		Style:    s.connectorStyle(f.Kind),
		Text:     f.Label,
	}
	if len(f.Waypoints) >= 2 {
		c.Route = s.tr.Points(f.Waypoints)
	} else {
		c.Route = route(src, dst)
		c.Synthesized = true
	}

	if c.Text != "" {
		if f.LabelBounds != nil {
			c.TextBox = grow(s.tr.Rect(*f.LabelBounds), minConnTextW, minConnTextH)
		} else {
			m := Midpoint(c.Route)
			c.TextBox = grow(geom.Rect{X: m.X, Y: m.Y}, defaultConnText, belowLabelH)
		}
	}
	return c, true
}

func (s *synth) connectorStyle(k diagram.FlowKind) Style {
	st := Style{
		Stroke:      s.pal.Connector,
		LineWeight:  weightNormal,
		LinePattern: LineSolid,
		FontSize:    fontConnector,
		FontColor:   s.pal.ConnectorLabel,
		Align:       AlignCenter,
		EndArrow:    true,
	}
	switch k {
	case diagram.FlowMessage:
		st.LinePattern = LineDash
		st.FontColor = s.pal.MessageLabel
	case diagram.FlowAssociation:
		st.Stroke = s.pal.Association
		st.LineWeight = weightContainer
		st.LinePattern = LineDot
		st.EndArrow = false
	}
	return st
}

// endpoint resolves a flow end to its drawn outline. Connectors attach to
// the element's clamped bounds so they meet what is actually drawn.
func (s *synth) endpoint(id string) (endpoint, bool) {
	e, ok := s.d.Element(id)
	if !ok {
		return endpoint{}, false
	}
	if r, ok := s.clamped[id]; ok {
		return endpoint{PrimitiveRect, r}, true
	}
	return endpoint{primitiveOf(e.Kind), s.tr.Rect(e.Bounds)}, true
}

func primitiveOf(k diagram.Kind) Primitive {
	switch {
	case k.IsEvent():
		return PrimitiveEllipse
	case k.IsGateway():
		return PrimitiveDiamond
	case k.IsActivity():
		return PrimitiveRoundedRect
	case k == diagram.KindTextAnnotation:
		return PrimitiveBracket
	}
	return PrimitiveRect
}
