package bpmn

import "github.com/Mgabr90/bpmn-to-visio/pkg/geom"

// Namespace URIs of the colour extensions read from BPMNShape attributes.
const (
	NSBioc  = "http://bpmn.io/schema/bpmn/biocolor/1.0"
	NSColor = "http://www.omg.org/spec/BPMN/non-normative/color/1.0"
)

// Node is one semantic element: a flow node, participant, lane or artifact.
type Node struct {
	ID   string
	Tag  string // local tag name, e.g. "userTask"
	Name string

	// EventDefinition is the local tag of the first *EventDefinition child
	// of an event, e.g. "timerEventDefinition".
	EventDefinition string

	ProcessID  string // enclosing process
	ParentID   string // enclosing sub-process, or parent lane for lanes
	LaneID     string // innermost lane listing this node in flowNodeRef
	ProcessRef string // participants only
	AttachedTo string // boundary events only
}

// Flow is one semantic connecting object.
type Flow struct {
	ID        string
	Tag       string // sequenceFlow, messageFlow or association
	Name      string
	SourceRef string
	TargetRef string
}

// Shape is a BPMNShape entry.
type Shape struct {
	ID        string
	ElementID string
	Bounds    geom.Rect
	Label     *geom.Rect // BPMNLabel bounds, nil when absent

	// Horizontal and Expanded are nil when the attribute is absent.
	Horizontal *bool
	Expanded   *bool

	Fill   string
	Stroke string
}

// Edge is a BPMNEdge entry.
type Edge struct {
	ID        string
	ElementID string
	Waypoints []geom.Point
	Label     *geom.Rect
}

// Plane is one BPMNDiagram/BPMNPlane pair.
type Plane struct {
	DiagramID   string
	DiagramName string
	ElementID   string // bpmnElement of the plane (process or collaboration)
	Shapes      []Shape
	Edges       []Edge
}

// Document is the parse tree of one BPMN file.
type Document struct {
	ID     string
	Name   string
	Nodes  []Node // document order
	Flows  []Flow // document order
	Planes []Plane

	// Warnings lists DI entries that were dropped while reading, for
	// example a shape without dc:Bounds.
	Warnings []string
}

// HasDiagram reports whether the document carries any diagram interchange.
func (d *Document) HasDiagram() bool {
	return len(d.Planes) > 0
}

// Node returns the semantic node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
