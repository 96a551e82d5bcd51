package diagram

import "github.com/Mgabr90/bpmn-to-visio/pkg/geom"

// Element is one visual node in source coordinates.
type Element struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Tag   string `json:"tag"` // source tag, e.g. "userTask" for KindTask
	Label string `json:"label,omitempty"`

	Bounds      geom.Rect  `json:"bounds"`
	LabelBounds *geom.Rect `json:"label_bounds,omitempty"`

	// Fill and Stroke are the explicit per-element colours. Empty means the
	// kind default applies; each is defaulted independently.
	Fill   string `json:"fill,omitempty"`
	Stroke string `json:"stroke,omitempty"`

	// ParentID references the enclosing pool or lane, if any.
	ParentID string `json:"parent_id,omitempty"`

	EventDefinition EventDefinition `json:"event_definition,omitempty"`

	// Horizontal is the pool/lane orientation; true unless the source says
	// isHorizontal="false".
	Horizontal bool `json:"horizontal"`

	// Expanded is true for sub-processes drawn with their content visible.
	Expanded bool `json:"expanded,omitempty"`
}

// Flow is one connector in source coordinates.
type Flow struct {
	ID        string   `json:"id"`
	Kind      FlowKind `json:"kind"`
	Label     string   `json:"label,omitempty"`
	SourceRef string   `json:"source_ref"`
	TargetRef string   `json:"target_ref"`

	// Waypoints holds at least two points, or is nil when the source had no
	// usable edge geometry.
	Waypoints   []geom.Point `json:"waypoints,omitempty"`
	LabelBounds *geom.Rect   `json:"label_bounds,omitempty"`
}

// Diagram is the format-agnostic model of one BPMN diagram. It is immutable
// once returned by [Build]; elements and flows refer to each other only by id.
type Diagram struct {
	Name     string    `json:"name"`
	Elements []Element `json:"elements"`
	Flows    []Flow    `json:"flows"`

	// Extent is the bounding box of all element bounds, waypoints and DI
	// label boxes. It is the zero Rect for a diagram with no content.
	Extent geom.Rect `json:"extent"`

	index map[string]int
}

// Element returns the element with the given id.
func (d *Diagram) Element(id string) (Element, bool) {
	i, ok := d.index[id]
	if !ok {
		return Element{}, false
	}
	return d.Elements[i], true
}

// Children returns the elements whose ParentID is id, in diagram order.
func (d *Diagram) Children(id string) []Element {
	var out []Element
	for _, e := range d.Elements {
		if e.ParentID == id {
			out = append(out, e)
		}
	}
	return out
}

// CountKind returns the number of elements of kind k.
func (d *Diagram) CountKind(k Kind) int {
	n := 0
	for _, e := range d.Elements {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Transform returns the page transform for this diagram.
func (d *Diagram) Transform(opts geom.Options) geom.Transform {
	return geom.NewTransform(d.Extent, opts)
}

// newDiagram builds the id index.
func newDiagram(name string, elements []Element, flows []Flow) *Diagram {
	d := &Diagram{
		Name:     name,
		Elements: elements,
		Flows:    flows,
		index:    make(map[string]int, len(elements)),
	}
	for i, e := range elements {
		d.index[e.ID] = i
	}

	rects := make([]geom.Rect, 0, len(elements))
	for _, e := range elements {
		rects = append(rects, e.Bounds)
		if e.LabelBounds != nil {
			rects = append(rects, *e.LabelBounds)
		}
	}
	var pts []geom.Point
	for _, f := range flows {
		pts = append(pts, f.Waypoints...)
		if f.LabelBounds != nil {
			rects = append(rects, *f.LabelBounds)
		}
	}
	if ext, ok := geom.Extent(rects, pts); ok {
		d.Extent = ext
	}
	return d
}
