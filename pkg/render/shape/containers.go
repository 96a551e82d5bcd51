package shape

import (
	"math"

	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
)

// planContainers derives header bands, hidden lanes and clamped lane
// bounds before any shape is built.
//
// A pool's header band is the offset of its first lane from the pool edge
// (x for horizontal pools, y for vertical ones), at least DefaultHeaderBand;
// lane-less pools use DefaultHeaderBand. A container whose only child lane
// is unnamed hides that lane. Visible lanes share their pool's band.
func (s *synth) planContainers() {
	lanesOf := make(map[string][]diagram.Element)
	for _, e := range s.d.Elements {
		if e.Kind == diagram.KindLane {
			lanesOf[e.ParentID] = append(lanesOf[e.ParentID], e)
		}
	}

	var visit func(parent diagram.Element, band float64, depth int)
	visit = func(parent diagram.Element, band float64, depth int) {
		lanes := lanesOf[parent.ID]
		if len(lanes) == 1 && lanes[0].Label == "" {
			s.hidden[lanes[0].ID] = true
		}
		for _, l := range lanes {
			s.depth[l.ID] = depth
			s.clampLane(l, parent)
			if !s.hidden[l.ID] {
				s.headers[l.ID] = band
			}
			visit(l, band, depth+1)
		}
	}

	for _, e := range s.d.Elements {
		if e.Kind != diagram.KindPool {
			continue
		}
		band := headerBand(e, lanesOf[e.ID])
		s.headers[e.ID] = band
		s.clamped[e.ID] = s.tr.Rect(e.Bounds)
		visit(e, band, 0)
	}

	// Lanes with no drawn pool are laid out on their own.
	for _, l := range lanesOf[""] {
		s.headers[l.ID] = DefaultHeaderBand
		s.clamped[l.ID] = s.tr.Rect(l.Bounds)
		visit(l, DefaultHeaderBand, 1)
	}
}

func headerBand(pool diagram.Element, lanes []diagram.Element) float64 {
	if len(lanes) == 0 {
		return DefaultHeaderBand
	}
	first := math.Inf(1)
	for _, l := range lanes {
		if pool.Horizontal {
			first = math.Min(first, l.Bounds.X-pool.Bounds.X)
		} else {
			first = math.Min(first, l.Bounds.Y-pool.Bounds.Y)
		}
	}
	return math.Max(first, DefaultHeaderBand)
}

// clampLane records l's page bounds intersected with its parent's, so no
// lane extends outside the pool that contains it.
func (s *synth) clampLane(l, parent diagram.Element) {
	r := s.tr.Rect(l.Bounds)
	if pr, ok := s.clamped[parent.ID]; ok {
		r = r.Intersect(pr)
	}
	s.clamped[l.ID] = r
}

func (s *synth) pool(e diagram.Element) Shape {
	sh := s.base(e, PrimitiveRect)
	return s.container(e, sh, s.headers[e.ID])
}

func (s *synth) lane(e diagram.Element) (Shape, bool) {
	if s.hidden[e.ID] {
		return Shape{}, false
	}
	sh := s.base(e, PrimitiveRect)
	if r, ok := s.clamped[e.ID]; ok {
		if r.IsEmpty() {
			s.warnf("%s: lane lies outside its pool", e.ID)
			return Shape{}, false
		}
		sh.Bounds = r
		sh.TextBlock = centered(r.Width, r.Height)
	}
	return s.container(e, sh, s.headers[e.ID]), true
}

// container adds the outline, the header split line and the header text
// block. The split line is placed in source units and transformed like any
// other coordinate, then clipped to the drawn bounds.
func (s *synth) container(e diagram.Element, sh Shape, bandPx float64) Shape {
	b := sh.Bounds
	w, h := b.Width, b.Height
	sh.Geometry = []Path{rectPath(w, h)}
	if bandPx <= 0 {
		sh.Style.FontSize = fontContainer
		return sh
	}

	band := s.tr.Size(bandPx)
	sh.HeaderBand = band
	sh.Style.FontSize = math.Min(8, math.Max(6, math.Floor(band*24)))

	if e.Horizontal {
		x := s.tr.X(e.Bounds.X+bandPx) - b.X
		x = math.Max(0, math.Min(w, x))
		sh.Geometry = append(sh.Geometry, strokes([4]float64{x, 0, x, h}))
		sh.TextBlock = TextBlock{PinX: band / 2, PinY: h / 2, Width: h, Height: band, Angle: math.Pi / 2}
		return sh
	}

	y := s.tr.Y(e.Bounds.Y+bandPx) - b.Y
	y = math.Max(0, math.Min(h, y))
	sh.Geometry = append(sh.Geometry, strokes([4]float64{0, y, w, y}))
	sh.TextBlock = TextBlock{PinX: w / 2, PinY: h - band/2, Width: w, Height: band}
	return sh
}
