package diagram

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Mgabr90/bpmn-to-visio/pkg/bpmn"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
)

// BuildOptions configures [Build].
type BuildOptions struct {
	// Name overrides the diagram name. When empty the definitions name is
	// used, then the BPMNDiagram name.
	Name string

	// FallbackName is used when neither the definitions nor the diagram
	// carries a name, typically [DisplayName] of the input file.
	FallbackName string
}

// Skip records one dropped shape or flow.
type Skip struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Stats summarizes what [Build] kept and dropped.
type Stats struct {
	Elements      int      `json:"elements"`
	Flows         int      `json:"flows"`
	SkippedShapes int      `json:"skipped_shapes"`
	SkippedFlows  int      `json:"skipped_flows"`
	ExtraPlanes   int      `json:"extra_planes,omitempty"`
	Skips         []Skip   `json:"skips,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

func (s *Stats) skipShape(id, format string, args ...any) {
	s.SkippedShapes++
	s.Skips = append(s.Skips, Skip{ID: id, Reason: fmt.Sprintf(format, args...)})
}

func (s *Stats) skipFlow(id, format string, args ...any) {
	s.SkippedFlows++
	s.Skips = append(s.Skips, Skip{ID: id, Reason: fmt.Sprintf(format, args...)})
}

// Build resolves the diagram interchange of doc against its semantic
// elements and returns the diagram model.
//
// Only the first BPMNPlane is drawn. A document without any diagram
// interchange is an ErrCodeMissingDiagram error. Shapes whose element is
// missing or of an unsupported kind are dropped, and so is every flow that
// touches a dropped shape; both are counted in Stats. Elements keep the
// order of their BPMNShape entries and flows keep semantic document order.
func Build(doc *bpmn.Document, opts BuildOptions) (*Diagram, Stats, error) {
	var stats Stats
	if doc == nil || !doc.HasDiagram() {
		return nil, stats, errors.New(errors.ErrCodeMissingDiagram, "document has no BPMNDiagram section")
	}
	stats.Warnings = append(stats.Warnings, doc.Warnings...)
	stats.ExtraPlanes = len(doc.Planes) - 1

	plane := doc.Planes[0]

	nodes := make(map[string]bpmn.Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, dup := nodes[n.ID]; !dup {
			nodes[n.ID] = n
		}
	}

	elements := make([]Element, 0, len(plane.Shapes))
	seen := make(map[string]bool, len(plane.Shapes))
	for _, s := range plane.Shapes {
		if seen[s.ElementID] {
			stats.skipShape(s.ElementID, "duplicate shape %q", s.ID)
			continue
		}
		n, ok := nodes[s.ElementID]
		if !ok {
			stats.skipShape(s.ElementID, "no semantic element")
			continue
		}
		kind, ok := KindFromTag(n.Tag)
		if !ok {
			stats.skipShape(s.ElementID, "unsupported element <%s>", n.Tag)
			continue
		}
		seen[s.ElementID] = true
		elements = append(elements, newElement(kind, n, s))
	}

	resolveParents(elements, nodes)

	edges := make(map[string]bpmn.Edge, len(plane.Edges))
	for _, e := range plane.Edges {
		if _, dup := edges[e.ElementID]; !dup {
			edges[e.ElementID] = e
		}
	}

	flows := make([]Flow, 0, len(doc.Flows))
	known := make(map[string]bool, len(doc.Flows))
	for _, f := range doc.Flows {
		known[f.ID] = true
		kind, ok := FlowKindFromTag(f.Tag)
		if !ok {
			stats.skipFlow(f.ID, "unsupported flow <%s>", f.Tag)
			continue
		}
		if !seen[f.SourceRef] || !seen[f.TargetRef] {
			stats.skipFlow(f.ID, "endpoint %s -> %s not drawn", f.SourceRef, f.TargetRef)
			continue
		}
		flow := Flow{
			ID:        f.ID,
			Kind:      kind,
			Label:     f.Name,
			SourceRef: f.SourceRef,
			TargetRef: f.TargetRef,
		}
		if e, ok := edges[f.ID]; ok {
			if len(e.Waypoints) >= 2 {
				flow.Waypoints = append([]geom.Point(nil), e.Waypoints...)
			}
			flow.LabelBounds = e.Label
		}
		flows = append(flows, flow)
	}
	for _, e := range plane.Edges {
		if !known[e.ElementID] {
			stats.skipFlow(e.ElementID, "edge %q has no semantic flow", e.ID)
		}
	}

	name := opts.Name
	if name == "" {
		name = doc.Name
	}
	if name == "" {
		name = plane.DiagramName
	}
	if name == "" {
		name = opts.FallbackName
	}

	d := newDiagram(name, elements, flows)
	stats.Elements = len(d.Elements)
	stats.Flows = len(d.Flows)
	return d, stats, nil
}

func newElement(kind Kind, n bpmn.Node, s bpmn.Shape) Element {
	e := Element{
		ID:          n.ID,
		Kind:        kind,
		Tag:         n.Tag,
		Label:       n.Name,
		Bounds:      s.Bounds,
		LabelBounds: s.Label,
		Fill:        s.Fill,
		Stroke:      s.Stroke,
		Horizontal:  true,
	}
	if s.Horizontal != nil {
		e.Horizontal = *s.Horizontal
	}
	if s.Expanded != nil {
		e.Expanded = *s.Expanded
	}
	if kind.IsEvent() {
		e.EventDefinition = eventDefinitionFromTag(n.EventDefinition)
	}
	return e
}

// resolveParents sets ParentID to the innermost drawn pool or lane.
//
// A lane's parent is its parent lane, else the pool whose processRef owns
// it. A flow node's parent is its innermost lane, else the owning pool.
// Containers that were not drawn are passed over.
func resolveParents(elements []Element, nodes map[string]bpmn.Node) {
	drawn := make(map[string]bool, len(elements))
	poolOf := make(map[string]string) // process id -> pool id
	for _, e := range elements {
		drawn[e.ID] = true
		if e.Kind == KindPool {
			if ref := nodes[e.ID].ProcessRef; ref != "" {
				if _, dup := poolOf[ref]; !dup {
					poolOf[ref] = e.ID
				}
			}
		}
	}

	// laneParent walks up the lane chain to the first drawn container.
	var laneParent func(laneID string, depth int) string
	laneParent = func(laneID string, depth int) string {
		if laneID == "" || depth > len(nodes) {
			return ""
		}
		if drawn[laneID] {
			return laneID
		}
		lane := nodes[laneID]
		if up := laneParent(lane.ParentID, depth+1); up != "" {
			return up
		}
		return poolOf[lane.ProcessID]
	}

	for i := range elements {
		e := &elements[i]
		n := nodes[e.ID]
		switch e.Kind {
		case KindPool, KindTextAnnotation:
			continue
		case KindLane:
			e.ParentID = laneParent(n.ParentID, 0)
		default:
			e.ParentID = laneParent(n.LaneID, 0)
		}
		if e.ParentID == "" {
			e.ParentID = poolOf[n.ProcessID]
		}
	}
}

var (
	displayPrefix  = regexp.MustCompile(`(?i)^BPMN diagram\s*-\s*`)
	displayVersion = regexp.MustCompile(`\s*-\s*[Vv]\d+\.\d+$`)
)

// DisplayName derives a human-readable diagram name from a file name by
// dropping the directory, the extension, a leading "BPMN diagram - " and a
// trailing " - V1.2" version suffix.
func DisplayName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = displayPrefix.ReplaceAllString(base, "")
	base = displayVersion.ReplaceAllString(base, "")
	return strings.TrimSpace(base)
}
