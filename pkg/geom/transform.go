package geom

import "math"

// Default page parameters.
const (
	DefaultPPI           = 96.0 // source pixels per target inch
	DefaultMargin        = 50.0 // source pixels of blank space around the content
	DefaultMinPageWidth  = 11.0 // inches (US Letter landscape)
	DefaultMinPageHeight = 8.5  // inches
)

// Options configures [NewTransform]. Zero fields take the defaults above.
type Options struct {
	PPI           float64
	Margin        float64
	MinPageWidth  float64
	MinPageHeight float64
}

// WithDefaults fills zero or negative fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.PPI <= 0 {
		o.PPI = DefaultPPI
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.MinPageWidth <= 0 {
		o.MinPageWidth = DefaultMinPageWidth
	}
	if o.MinPageHeight <= 0 {
		o.MinPageHeight = DefaultMinPageHeight
	}
	return o
}

// Transform maps source coordinates to target page coordinates:
//
//	X(x) = (x - OffsetX) * Scale
//	Y(y) = PageHeight - (y - OffsetY) * Scale
//
// OffsetX/OffsetY shift the content's top-left corner to the margin so every
// transformed coordinate is non-negative. Sizes are scaled but never flipped.
// A Transform is a value; it is safe to share between goroutines.
type Transform struct {
	Scale      float64 `json:"scale"`
	OffsetX    float64 `json:"offset_x"`
	OffsetY    float64 `json:"offset_y"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
}

// NewTransform builds the transform for a diagram whose content occupies
// extent (source units, margin not included). An empty extent yields the
// minimum page with the origin at the margin.
func NewTransform(extent Rect, opts Options) Transform {
	opts = opts.WithDefaults()
	scale := 1 / opts.PPI

	w := (extent.Width + 2*opts.Margin) * scale
	h := (extent.Height + 2*opts.Margin) * scale

	return Transform{
		Scale:      scale,
		OffsetX:    extent.X - opts.Margin,
		OffsetY:    extent.Y - opts.Margin,
		PageWidth:  Round(math.Max(w, opts.MinPageWidth)),
		PageHeight: Round(math.Max(h, opts.MinPageHeight)),
	}
}

// X maps a source x coordinate.
func (t Transform) X(x float64) float64 { return (x - t.OffsetX) * t.Scale }

// Y maps a source y coordinate, flipping the vertical axis.
func (t Transform) Y(y float64) float64 { return t.PageHeight - (y-t.OffsetY)*t.Scale }

// Size maps a source distance.
func (t Transform) Size(d float64) float64 { return d * t.Scale }

// Point maps a source point.
func (t Transform) Point(p Point) Point { return Point{t.X(p.X), t.Y(p.Y)} }

// Points maps a slice of source points. A nil input stays nil.
func (t Transform) Points(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.Point(p)
	}
	return out
}

// Rect maps a source rectangle (top-left origin) to a target rectangle
// (bottom-left origin). The source bottom edge becomes the target Y.
func (t Transform) Rect(r Rect) Rect {
	return Rect{
		X:      t.X(r.X),
		Y:      t.Y(r.MaxY()),
		Width:  t.Size(r.Width),
		Height: t.Size(r.Height),
	}
}

// InverseX maps a target x coordinate back to source units.
func (t Transform) InverseX(x float64) float64 { return x/t.Scale + t.OffsetX }

// InverseY maps a target y coordinate back to source units.
func (t Transform) InverseY(y float64) float64 { return (t.PageHeight-y)/t.Scale + t.OffsetY }

// InversePoint maps a target point back to source units.
func (t Transform) InversePoint(p Point) Point { return Point{t.InverseX(p.X), t.InverseY(p.Y)} }

// InverseRect maps a target rectangle back to a source rectangle.
func (t Transform) InverseRect(r Rect) Rect {
	return Rect{
		X:      t.InverseX(r.X),
		Y:      t.InverseY(r.MaxY()),
		Width:  r.Width / t.Scale,
		Height: r.Height / t.Scale,
	}
}
