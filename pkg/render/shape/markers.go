package shape

import (
	"math"

	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
)

// ====================================================================
// Outlines (local inches, origin bottom-left)
// ====================================================================

// Outline returns the base outline of primitive p for a w×h shape.
func Outline(p Primitive, w, h float64) Path {
	switch p {
	case PrimitiveEllipse:
		return ellipsePath(w, h)
	case PrimitiveDiamond:
		return diamondPath(w, h)
	case PrimitiveBracket:
		return bracketPath(w, h)
	case PrimitiveText:
		return textPath(w, h)
	}
	return rectPath(w, h)
}

func rectPath(w, h float64) Path {
	return Path{Segments: []Segment{
		moveTo(0, 0), lineTo(w, 0), lineTo(w, h), lineTo(0, h), lineTo(0, 0),
	}}
}

func ellipsePath(w, h float64) Path {
	return Path{Segments: []Segment{
		{Op: OpEllipse, X: w / 2, Y: h / 2, A: w, B: h / 2, C: w / 2, D: h},
	}}
}

func diamondPath(w, h float64) Path {
	return Path{Segments: []Segment{
		moveTo(w/2, 0), lineTo(w, h/2), lineTo(w/2, h), lineTo(0, h/2), lineTo(w/2, 0),
	}}
}

// bracketArm is the length of the annotation bracket's horizontal arms.
const bracketArm = 0.15

func bracketPath(w, h float64) Path {
	arm := math.Min(bracketArm, w)
	return Path{NoFill: true, Segments: []Segment{
		moveTo(arm, h), lineTo(0, h), lineTo(0, 0), lineTo(arm, 0),
	}}
}

// textPath is the invisible frame of a text-only shape.
func textPath(w, h float64) Path {
	p := rectPath(w, h)
	p.NoFill, p.NoLine = true, true
	return p
}

// strokes builds an unfilled path of independent line segments.
func strokes(lines ...[4]float64) Path {
	p := Path{NoFill: true}
	for _, l := range lines {
		p.Segments = append(p.Segments, moveTo(l[0], l[1]), lineTo(l[2], l[3]))
	}
	return p
}

// polyline builds an unfilled open path through pts.
func polyline(pts ...[2]float64) Path {
	p := Path{NoFill: true}
	for i, pt := range pts {
		if i == 0 {
			p.Segments = append(p.Segments, moveTo(pt[0], pt[1]))
			continue
		}
		p.Segments = append(p.Segments, lineTo(pt[0], pt[1]))
	}
	return p
}

// circle builds an unfilled circle of radius r centred on (cx, cy).
func circle(cx, cy, r float64) Path {
	return Path{NoFill: true, Segments: []Segment{
		{Op: OpEllipse, X: cx, Y: cy, A: cx + r, B: cy, C: cx, D: cy + r},
	}}
}

// ====================================================================
// Markers
// ====================================================================

// gatewayGlyph returns the marker drawn inside a gateway diamond.
// Event-based gateways carry no glyph.
func gatewayGlyph(k diagram.Kind, w, h float64) []Path {
	cx, cy := w/2, h/2
	ms := math.Min(w, h) * 0.3
	switch k {
	case diagram.KindExclusiveGateway:
		d := ms * 0.7
		return []Path{strokes(
			[4]float64{cx - d, cy - d, cx + d, cy + d},
			[4]float64{cx + d, cy - d, cx - d, cy + d},
		)}
	case diagram.KindParallelGateway:
		d := ms * 0.8
		return []Path{strokes(
			[4]float64{cx, cy - d, cx, cy + d},
			[4]float64{cx - d, cy, cx + d, cy},
		)}
	case diagram.KindInclusiveGateway:
		return []Path{circle(cx, cy, ms*0.6)}
	}
	return nil
}

// eventMarker returns the trigger glyph drawn inside an event circle.
func eventMarker(def diagram.EventDefinition, w, h float64) []Path {
	cx, cy := w/2, h/2
	ms := math.Min(w, h) * 0.25
	switch def {
	case diagram.EventMessage:
		ew, eh := ms*1.2, ms*0.8
		l, r := cx-ew, cx+ew
		b, t := cy-eh, cy+eh
		return []Path{
			polyline([2]float64{l, b}, [2]float64{r, b}, [2]float64{r, t}, [2]float64{l, t}, [2]float64{l, b}),
			polyline([2]float64{l, t}, [2]float64{cx, cy + eh*0.3}, [2]float64{r, t}),
		}
	case diagram.EventTimer:
		r := ms * 0.8
		return []Path{
			circle(cx, cy, r),
			strokes(
				[4]float64{cx, cy, cx + r*0.5*math.Cos(math.Pi/3), cy + r*0.5*math.Sin(math.Pi/3)},
				[4]float64{cx, cy, cx, cy + r*0.7},
			),
		}
	case diagram.EventSignal:
		s := ms * 0.8
		return []Path{polyline(
			[2]float64{cx, cy + s}, [2]float64{cx - s, cy - s*0.6},
			[2]float64{cx + s, cy - s*0.6}, [2]float64{cx, cy + s},
		)}
	}
	return nil
}

// Collapsed sub-process marker dimensions, in inches.
const (
	collapsedBox    = 0.12
	collapsedMargin = 0.04
)

// collapsedMarker returns the "[+]" box centred on the bottom edge.
func collapsedMarker(w float64) []Path {
	cx := w / 2
	hb := collapsedBox / 2
	by := collapsedMargin + hb
	cross := hb * 0.65
	return []Path{
		polyline(
			[2]float64{cx - hb, by - hb}, [2]float64{cx + hb, by - hb},
			[2]float64{cx + hb, by + hb}, [2]float64{cx - hb, by + hb},
			[2]float64{cx - hb, by - hb},
		),
		strokes(
			[4]float64{cx, by - cross, cx, by + cross},
			[4]float64{cx - cross, by, cx + cross, by},
		),
	}
}
