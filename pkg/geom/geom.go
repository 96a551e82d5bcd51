// Package geom provides the point and rectangle types shared by the diagram
// model and the shape synthesizer, and the [Transform] that maps source
// diagram coordinates onto the target page.
//
// Two coordinate conventions are in play:
//
//   - Source units: pixels, origin top-left, y grows downward (BPMN DI).
//   - Target units: inches, origin bottom-left, y grows upward (Visio page).
//
// [Rect] is used for both. In source units X/Y is the top-left corner; after
// [Transform.Rect] X/Y is the bottom-left corner. Width and Height are always
// non-negative extents.
package geom

import "math"

// Epsilon is the tolerance used by boundary and containment checks.
const Epsilon = 1e-6

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Near reports whether p and q coincide within tol.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the edge opposite Y (bottom in source units, top in target units).
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside or on the edge of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X-Epsilon && p.X <= r.MaxX()+Epsilon &&
		p.Y >= r.Y-Epsilon && p.Y <= r.MaxY()+Epsilon
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X-Epsilon && o.MaxX() <= r.MaxX()+Epsilon &&
		o.Y >= r.Y-Epsilon && o.MaxY() <= r.MaxY()+Epsilon
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX, minY := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	maxX, maxY := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Intersect returns the overlap of r and o. The result is empty (zero width
// or height) when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	minX, minY := math.Max(r.X, o.X), math.Max(r.Y, o.Y)
	maxX, maxY := math.Min(r.MaxX(), o.MaxX()), math.Min(r.MaxY(), o.MaxY())
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Extent returns the bounding box of all rectangles and points.
// ok is false when both inputs are empty.
func Extent(rects []Rect, pts []Point) (box Rect, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX, minY = math.Min(minX, r.X), math.Min(minY, r.Y)
		maxX, maxY = math.Max(maxX, r.MaxX()), math.Max(maxY, r.MaxY())
	}
	for _, p := range pts {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	if math.IsInf(minX, 1) {
		return Rect{}, false
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}, true
}

// Round rounds v to 4 decimal places, the precision written into page XML.
func Round(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // avoid "-0"
	}
	return r
}
