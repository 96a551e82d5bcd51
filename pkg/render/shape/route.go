package shape

import (
	"math"

	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
)

// Connector drawing constants, in inches.
const (
	CornerRadius    = 0.15 // rounding of route corners
	ArrowLength     = 0.12
	ArrowWidthRatio = 0.35 // arrowhead half-width over length
	selfLoopReach   = 0.25 // how far a self-loop stands off its shape
)

// Dir is a side of a shape.
type Dir int

const (
	DirRight Dir = iota
	DirLeft
	DirTop
	DirBottom
)

// Anchor returns the midpoint of side dir of r (page inches, y up). Side
// midpoints lie on the outline of every primitive.
func Anchor(r geom.Rect, dir Dir) geom.Point {
	c := r.Center()
	switch dir {
	case DirRight:
		return geom.Point{X: r.MaxX(), Y: c.Y}
	case DirLeft:
		return geom.Point{X: r.X, Y: c.Y}
	case DirTop:
		return geom.Point{X: c.X, Y: r.MaxY()}
	default:
		return geom.Point{X: c.X, Y: r.Y}
	}
}

// OnBoundary reports whether p lies on the outline of primitive prim drawn
// in r, within tol inches. Rounded rectangles are treated as rectangles.
func OnBoundary(prim Primitive, r geom.Rect, p geom.Point, tol float64) bool {
	c := r.Center()
	a, b := r.Width/2, r.Height/2
	switch prim {
	case PrimitiveEllipse:
		if a <= 0 || b <= 0 {
			return false
		}
		dx, dy := (p.X-c.X)/a, (p.Y-c.Y)/b
		return math.Abs(math.Hypot(dx, dy)-1)*math.Min(a, b) <= tol
	case PrimitiveDiamond:
		if a <= 0 || b <= 0 {
			return false
		}
		v := math.Abs(p.X-c.X)/a + math.Abs(p.Y-c.Y)/b
		return math.Abs(v-1)*math.Min(a, b) <= tol
	default:
		inX := p.X >= r.X-tol && p.X <= r.MaxX()+tol
		inY := p.Y >= r.Y-tol && p.Y <= r.MaxY()+tol
		onX := math.Abs(p.X-r.X) <= tol || math.Abs(p.X-r.MaxX()) <= tol
		onY := math.Abs(p.Y-r.Y) <= tol || math.Abs(p.Y-r.MaxY()) <= tol
		return (onX && inY) || (onY && inX)
	}
}

// entryX returns where the horizontal line at height y meets the outline of
// prim in r, on the left side when fromLeft is true and on the right
// otherwise. y must lie within r's vertical extent.
func entryX(prim Primitive, r geom.Rect, y float64, fromLeft bool) float64 {
	c := r.Center()
	a, b := r.Width/2, r.Height/2
	off := a
	if b > 0 {
		t := math.Min(math.Abs(y-c.Y)/b, 1)
		switch prim {
		case PrimitiveEllipse:
			off = a * math.Sqrt(1-t*t)
		case PrimitiveDiamond:
			off = a * (1 - t)
		}
	}
	if fromLeft {
		return c.X - off
	}
	return c.X + off
}

// entryY is entryX with the axes swapped: where the vertical line at x
// meets the outline, on the bottom when fromBelow is true.
func entryY(prim Primitive, r geom.Rect, x float64, fromBelow bool) float64 {
	c := r.Center()
	a, b := r.Width/2, r.Height/2
	off := b
	if a > 0 {
		t := math.Min(math.Abs(x-c.X)/a, 1)
		switch prim {
		case PrimitiveEllipse:
			off = b * math.Sqrt(1-t*t)
		case PrimitiveDiamond:
			off = b * (1 - t)
		}
	}
	if fromBelow {
		return c.Y - off
	}
	return c.Y + off
}

// endpoint is a connector end: a shape outline in page inches.
type endpoint struct {
	prim   Primitive
	bounds geom.Rect
}

// Route synthesizes an orthogonal route from src to dst in page inches.
//
// The major axis is the one with the larger centre separation. The route
// leaves src along the major axis and enters dst along the minor axis, one
// corner in between. When dst straddles the exit line the route is straight
// along the major axis, split at its midpoint so it still has three points.
// A route from a shape to itself is a loop over its top-right corner.
func Route(srcPrim Primitive, src geom.Rect, dstPrim Primitive, dst geom.Rect) []geom.Point {
	return route(endpoint{srcPrim, src}, endpoint{dstPrim, dst})
}

func route(s, t endpoint) []geom.Point {
	if s.bounds == t.bounds {
		return selfLoop(s.bounds)
	}
	cs, ct := s.bounds.Center(), t.bounds.Center()
	dx, dy := ct.X-cs.X, ct.Y-cs.Y

	horizontal := math.Abs(dx) >= math.Abs(dy)
	if pts, ok := orthogonal(s, t, horizontal); ok {
		return pts
	}
	if pts, ok := orthogonal(s, t, !horizontal); ok {
		return pts
	}

	// Overlapping shapes: join the facing side midpoints.
	var start, end geom.Point
	if horizontal {
		start, end = Anchor(s.bounds, sideX(dx)), Anchor(t.bounds, sideX(-dx))
	} else {
		start, end = Anchor(s.bounds, sideY(dy)), Anchor(t.bounds, sideY(-dy))
	}
	return []geom.Point{start, mid(start, end), end}
}

// orthogonal tries the route with the given major axis. It fails when the
// corner would fall inside either shape.
func orthogonal(s, t endpoint, horizontal bool) ([]geom.Point, bool) {
	cs, ct := s.bounds.Center(), t.bounds.Center()
	dx, dy := ct.X-cs.X, ct.Y-cs.Y

	if horizontal {
		if dx == 0 {
			return nil, false
		}
		start := Anchor(s.bounds, sideX(dx))
		if cs.Y >= t.bounds.Y && cs.Y <= t.bounds.MaxY() {
			end := geom.Point{X: entryX(t.prim, t.bounds, cs.Y, dx > 0), Y: cs.Y}
			if (end.X-start.X)*dx <= 0 {
				return nil, false
			}
			return []geom.Point{start, mid(start, end), end}, true
		}
		corner := geom.Point{X: ct.X, Y: cs.Y}
		if (corner.X-start.X)*dx <= 0 {
			return nil, false
		}
		end := Anchor(t.bounds, sideY(-dy))
		return []geom.Point{start, corner, end}, true
	}

	if dy == 0 {
		return nil, false
	}
	start := Anchor(s.bounds, sideY(dy))
	if cs.X >= t.bounds.X && cs.X <= t.bounds.MaxX() {
		end := geom.Point{X: cs.X, Y: entryY(t.prim, t.bounds, cs.X, dy > 0)}
		if (end.Y-start.Y)*dy <= 0 {
			return nil, false
		}
		return []geom.Point{start, mid(start, end), end}, true
	}
	corner := geom.Point{X: cs.X, Y: ct.Y}
	if (corner.Y-start.Y)*dy <= 0 {
		return nil, false
	}
	end := Anchor(t.bounds, sideX(-dx))
	return []geom.Point{start, corner, end}, true
}

func selfLoop(r geom.Rect) []geom.Point {
	c := r.Center()
	x := r.MaxX() + selfLoopReach
	y := r.MaxY() + selfLoopReach
	return []geom.Point{
		{X: r.MaxX(), Y: c.Y},
		{X: x, Y: c.Y},
		{X: x, Y: y},
		{X: c.X, Y: y},
		{X: c.X, Y: r.MaxY()},
	}
}

func sideX(d float64) Dir {
	if d >= 0 {
		return DirRight
	}
	return DirLeft
}

func sideY(d float64) Dir {
	if d >= 0 {
		return DirTop
	}
	return DirBottom
}

func mid(a, b geom.Point) geom.Point {
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// ====================================================================
// Route geometry
// ====================================================================

// RoundedPath returns the route as an unfilled path whose interior corners
// are replaced by arcs of radius r, clamped to 45% of the adjacent
// segments. Coordinates stay in the route's frame.
func RoundedPath(route []geom.Point, r float64) Path {
	p := Path{NoFill: true}
	if len(route) < 2 {
		return p
	}
	p.Segments = append(p.Segments, moveTo(route[0].X, route[0].Y))
	for i := 1; i < len(route)-1; i++ {
		prev, cur, next := route[i-1], route[i], route[i+1]
		l1, l2 := cur.Dist(prev), cur.Dist(next)
		if l1 < geom.Epsilon || l2 < geom.Epsilon {
			p.Segments = append(p.Segments, lineTo(cur.X, cur.Y))
			continue
		}
		u1 := geom.Point{X: (prev.X - cur.X) / l1, Y: (prev.Y - cur.Y) / l1}
		u2 := geom.Point{X: (next.X - cur.X) / l2, Y: (next.Y - cur.Y) / l2}

		turn := math.Acos(math.Max(-1, math.Min(1, -(u1.X*u2.X + u1.Y*u2.Y))))
		if turn < 1e-4 {
			p.Segments = append(p.Segments, lineTo(cur.X, cur.Y))
			continue
		}

		rr := math.Min(r, math.Min(l1*0.45, l2*0.45))
		cb1 := cur.Add(u1.X*rr, u1.Y*rr)
		cb2 := cur.Add(u2.X*rr, u2.Y*rr)

		bow := rr * (1 - math.Cos(turn/2))
		if cross := -u1.X*u2.Y + u1.Y*u2.X; cross < 0 {
			bow = -bow
		}
		p.Segments = append(p.Segments,
			lineTo(cb1.X, cb1.Y),
			Segment{Op: OpArcTo, X: cb2.X, Y: cb2.Y, A: bow},
		)
	}
	last := route[len(route)-1]
	p.Segments = append(p.Segments, lineTo(last.X, last.Y))
	return p
}

// ArrowHead returns a filled triangle whose tip is the last route point,
// or false when the final segment has no length.
func ArrowHead(route []geom.Point) (Path, bool) {
	if len(route) < 2 {
		return Path{}, false
	}
	from, tip := route[len(route)-2], route[len(route)-1]
	l := from.Dist(tip)
	if l < geom.Epsilon {
		return Path{}, false
	}
	ux, uy := (tip.X-from.X)/l, (tip.Y-from.Y)/l
	nx, ny := -uy, ux
	base := tip.Add(-ux*ArrowLength, -uy*ArrowLength)
	hw := ArrowLength * ArrowWidthRatio
	return Path{Segments: []Segment{
		moveTo(tip.X, tip.Y),
		lineTo(base.X+nx*hw, base.Y+ny*hw),
		lineTo(base.X-nx*hw, base.Y-ny*hw),
		lineTo(tip.X, tip.Y),
	}}, true
}

// ArcControl returns the quadratic control point equivalent to an ArcTo
// segment starting at from: the curve through the arc's midpoint.
func ArcControl(from geom.Point, s Segment) geom.Point {
	to := geom.Point{X: s.X, Y: s.Y}
	m := mid(from, to)
	l := from.Dist(to)
	if l < geom.Epsilon {
		return m
	}
	// right-hand normal of the chord direction
	nx, ny := (to.Y-from.Y)/l, -(to.X-from.X)/l
	bulge := m.Add(nx*s.A, ny*s.A)
	return geom.Point{X: 2*bulge.X - m.X, Y: 2*bulge.Y - m.Y}
}

// Midpoint returns the point halfway along the polyline pts.
func Midpoint(pts []geom.Point) geom.Point {
	if len(pts) == 0 {
		return geom.Point{}
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Dist(pts[i])
	}
	half := total / 2
	for i := 1; i < len(pts); i++ {
		seg := pts[i-1].Dist(pts[i])
		if seg >= half && seg > 0 {
			t := half / seg
			return geom.Point{
				X: pts[i-1].X + (pts[i].X-pts[i-1].X)*t,
				Y: pts[i-1].Y + (pts[i].Y-pts[i-1].Y)*t,
			}
		}
		half -= seg
	}
	return pts[len(pts)-1]
}
