package shape

import (
	"fmt"

	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
)

// Primitive is the base outline of a shape.
type Primitive int

const (
	PrimitiveRect Primitive = iota
	PrimitiveRoundedRect
	PrimitiveEllipse
	PrimitiveDiamond
	PrimitiveBracket
	PrimitiveText
)

var primitiveNames = [...]string{
	PrimitiveRect:        "Rectangle",
	PrimitiveRoundedRect: "RoundedRectangle",
	PrimitiveEllipse:     "Ellipse",
	PrimitiveDiamond:     "Diamond",
	PrimitiveBracket:     "Bracket",
	PrimitiveText:        "Text",
}

func (p Primitive) String() string {
	if p < 0 || int(p) >= len(primitiveNames) {
		return "Unknown"
	}
	return primitiveNames[p]
}

// MarshalText encodes p by name.
func (p Primitive) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a primitive name.
func (p *Primitive) UnmarshalText(b []byte) error {
	for _, c := range Primitives() {
		if c.String() == string(b) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown primitive %q", b)
}

// Primitives lists every primitive in declaration order.
func Primitives() []Primitive {
	return []Primitive{
		PrimitiveRect, PrimitiveRoundedRect, PrimitiveEllipse,
		PrimitiveDiamond, PrimitiveBracket, PrimitiveText,
	}
}

// LinePattern values match the target format's LinePattern cell.
type LinePattern int

const (
	LineNone  LinePattern = 0
	LineSolid LinePattern = 1
	LineDash  LinePattern = 2
	LineDot   LinePattern = 3
)

// Align is the horizontal text alignment.
type Align int

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
)

// Style is the resolved visual style of a shape or connector.
type Style struct {
	Fill        string      `json:"fill,omitempty"` // empty means unfilled
	Stroke      string      `json:"stroke,omitempty"`
	LineWeight  float64     `json:"line_weight"` // inches
	LinePattern LinePattern `json:"line_pattern"`
	Rounding    float64     `json:"rounding,omitempty"` // corner radius, inches
	FontSize    float64     `json:"font_size"`          // points
	FontColor   string      `json:"font_color"`
	Align       Align       `json:"align"`
	EndArrow    bool        `json:"end_arrow,omitempty"`
}

// TextBlock positions text in shape-local inches (origin bottom-left).
// Angle is in radians, counter-clockwise.
type TextBlock struct {
	PinX   float64 `json:"pin_x"`
	PinY   float64 `json:"pin_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle,omitempty"`
}

// centered returns a text block covering the whole w×h shape.
func centered(w, h float64) TextBlock {
	return TextBlock{PinX: w / 2, PinY: h / 2, Width: w, Height: h}
}

// Op is a geometry row type.
type Op int

const (
	OpMoveTo Op = iota
	OpLineTo
	// OpArcTo draws a circular arc to (X, Y). A is the bow: the distance from
	// the chord midpoint to the arc midpoint, positive for a counter-clockwise
	// arc (bulging to the right of the chord direction).
	OpArcTo
	// OpEllipse draws a full ellipse centred on (X, Y) with one axis end at
	// (A, B) and the other at (C, D).
	OpEllipse
)

func (o Op) String() string {
	switch o {
	case OpMoveTo:
		return "MoveTo"
	case OpLineTo:
		return "LineTo"
	case OpArcTo:
		return "ArcTo"
	case OpEllipse:
		return "Ellipse"
	}
	return "Unknown"
}

// Segment is one geometry row.
type Segment struct {
	Op Op      `json:"op"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	A  float64 `json:"a,omitempty"`
	B  float64 `json:"b,omitempty"`
	C  float64 `json:"c,omitempty"`
	D  float64 `json:"d,omitempty"`
}

func moveTo(x, y float64) Segment { return Segment{Op: OpMoveTo, X: x, Y: y} }
func lineTo(x, y float64) Segment { return Segment{Op: OpLineTo, X: x, Y: y} }

// Path is one geometry section.
type Path struct {
	NoFill   bool      `json:"no_fill,omitempty"`
	NoLine   bool      `json:"no_line,omitempty"`
	Segments []Segment `json:"segments"`
}

// Shape is a synthesized 2-D shape in page inches.
type Shape struct {
	// ID is unique within a drawing. It equals ElementID except for label
	// shapes, which use ElementID + LabelSuffix.
	ID        string       `json:"id"`
	ElementID string       `json:"element_id"`
	Kind      diagram.Kind `json:"kind"`
	Tag       string       `json:"tag"`
	Primitive Primitive    `json:"primitive"`

	// Bounds has its origin at the bottom-left corner.
	Bounds geom.Rect `json:"bounds"`

	Style     Style     `json:"style"`
	Text      string    `json:"text,omitempty"`
	TextBlock TextBlock `json:"text_block"`

	// Geometry holds the outline first, then any markers, in local inches.
	Geometry []Path `json:"geometry"`

	// HeaderBand is the pool/lane header width in inches; zero otherwise.
	HeaderBand float64 `json:"header_band,omitempty"`

	IsLabel bool `json:"is_label,omitempty"`
}

// LabelSuffix is appended to an element id to form its label shape id.
const LabelSuffix = "#label"

// Connector is a synthesized flow line in page inches.
type Connector struct {
	FlowID   string           `json:"flow_id"`
	Kind     diagram.FlowKind `json:"kind"`
	SourceID string           `json:"source_id"`
	TargetID string           `json:"target_id"`

	// Route has at least two points. Synthesized is true when the source
	// had no usable waypoints.
	Route       []geom.Point `json:"route"`
	Synthesized bool         `json:"synthesized,omitempty"`

	Style Style  `json:"style"`
	Text  string `json:"text,omitempty"`

	// TextBox is the label box in page inches (bottom-left origin); zero
	// when Text is empty.
	TextBox geom.Rect `json:"text_box"`
}

// Drawing is the synthesized page.
type Drawing struct {
	Name       string  `json:"name"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`

	// Shapes are in z-order: pools, lanes, flow nodes with their labels,
	// then annotations. Connectors are drawn above all shapes.
	Shapes     []Shape     `json:"shapes"`
	Connectors []Connector `json:"connectors"`

	Warnings []string `json:"warnings,omitempty"`
}

// Shape returns the shape with the given id.
func (d *Drawing) Shape(id string) (Shape, bool) {
	for _, s := range d.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}

// UsedPrimitives returns the distinct primitives present, in declaration order.
func (d *Drawing) UsedPrimitives() []Primitive {
	seen := make(map[Primitive]bool)
	for _, s := range d.Shapes {
		seen[s.Primitive] = true
	}
	var out []Primitive
	for _, p := range Primitives() {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}
