package bpmn

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
)

// ParseFile reads and parses the BPMN file at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(data)
}

// Parse parses a BPMN 2.0 document.
//
// Malformed XML yields an ErrCodeMalformedXML error; a well-formed document
// whose root is not <definitions> yields ErrCodeInvalidInput. A document
// without a BPMNDiagram is not an error at this level; see [Document.HasDiagram].
func Parse(data []byte) (*Document, error) {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedXML, err, "parse BPMN XML")
	}
	root := x.Root()
	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedXML, "document has no root element")
	}
	if root.Tag != "definitions" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root element is <%s>, want <definitions>", root.FullTag())
	}

	p := &parser{
		doc:    &Document{ID: attr(root, "id"), Name: attr(root, "name")},
		laneOf: make(map[string]string),
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "process":
			p.container(child, scope{process: attr(child, "id")})
		case "collaboration":
			p.container(child, scope{})
		case "BPMNDiagram":
			p.diagram(child)
		}
	}
	p.resolveLanes()
	return p.doc, nil
}

// scope is the semantic context an element is read in.
type scope struct {
	process string
	parent  string // enclosing sub-process
}

type parser struct {
	doc    *Document
	laneOf map[string]string // flow node id -> innermost lane id
}

// container reads the children of a process, collaboration or sub-process.
func (p *parser) container(el *etree.Element, sc scope) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "sequenceFlow", "messageFlow", "association":
			p.flow(child)
		case "laneSet":
			p.laneSet(child, sc, "")
		case "participant":
			p.node(child, sc).ProcessRef = attr(child, "processRef")
		case "subProcess", "transaction", "adHocSubProcess":
			n := p.node(child, sc)
			p.container(child, scope{process: sc.process, parent: n.ID})
		case "extensionElements", "documentation", "ioSpecification", "property",
			"messageFlowRef", "conversationLink", "participantAssociation":
		default:
			if attr(child, "id") != "" {
				p.node(child, sc)
			}
		}
	}
}

// node appends a Node for el and returns a pointer to it for further setup.
// The pointer is only valid until the next append.
func (p *parser) node(el *etree.Element, sc scope) *Node {
	n := Node{
		ID:         attr(el, "id"),
		Tag:        el.Tag,
		Name:       attr(el, "name"),
		ProcessID:  sc.process,
		ParentID:   sc.parent,
		AttachedTo: attr(el, "attachedToRef"),
	}
	for _, child := range el.ChildElements() {
		switch {
		case child.Tag == "text" && n.Tag == "textAnnotation" && n.Name == "":
			n.Name = strings.TrimSpace(child.Text())
		case strings.HasSuffix(child.Tag, "EventDefinition") && n.EventDefinition == "":
			n.EventDefinition = child.Tag
		}
	}
	p.doc.Nodes = append(p.doc.Nodes, n)
	return &p.doc.Nodes[len(p.doc.Nodes)-1]
}

func (p *parser) flow(el *etree.Element) {
	f := Flow{
		ID:        attr(el, "id"),
		Tag:       el.Tag,
		Name:      attr(el, "name"),
		SourceRef: attr(el, "sourceRef"),
		TargetRef: attr(el, "targetRef"),
	}
	if f.ID == "" {
		p.warnf("%s without id ignored", f.Tag)
		return
	}
	p.doc.Flows = append(p.doc.Flows, f)
}

// laneSet reads lanes recursively. Lanes nested in a childLaneSet record
// their parent lane as ParentID.
func (p *parser) laneSet(el *etree.Element, sc scope, parentLane string) {
	for _, lane := range el.SelectElements("lane") {
		id := p.node(lane, scope{process: sc.process, parent: parentLane}).ID
		for _, ref := range lane.SelectElements("flowNodeRef") {
			p.laneOf[strings.TrimSpace(ref.Text())] = id
		}
		for _, child := range lane.SelectElements("childLaneSet") {
			p.laneSet(child, sc, id)
		}
	}
}

func (p *parser) resolveLanes() {
	for i := range p.doc.Nodes {
		n := &p.doc.Nodes[i]
		if n.Tag == "lane" {
			continue
		}
		n.LaneID = p.laneOf[n.ID]
	}
}

func (p *parser) diagram(el *etree.Element) {
	for _, planeEl := range el.SelectElements("BPMNPlane") {
		plane := Plane{
			DiagramID:   attr(el, "id"),
			DiagramName: attr(el, "name"),
			ElementID:   attr(planeEl, "bpmnElement"),
		}
		for _, child := range planeEl.ChildElements() {
			switch child.Tag {
			case "BPMNShape":
				if s, ok := p.shape(child); ok {
					plane.Shapes = append(plane.Shapes, s)
				}
			case "BPMNEdge":
				plane.Edges = append(plane.Edges, p.edge(child))
			}
		}
		p.doc.Planes = append(p.doc.Planes, plane)
	}
}

func (p *parser) shape(el *etree.Element) (Shape, bool) {
	s := Shape{
		ID:         attr(el, "id"),
		ElementID:  attr(el, "bpmnElement"),
		Horizontal: boolAttr(el, "isHorizontal"),
		Expanded:   boolAttr(el, "isExpanded"),
	}
	if s.ElementID == "" {
		p.warnf("BPMNShape %q has no bpmnElement", s.ID)
		return s, false
	}
	b := el.SelectElement("Bounds")
	if b == nil {
		p.warnf("BPMNShape for %q has no Bounds", s.ElementID)
		return s, false
	}
	bounds, err := readBounds(b)
	if err != nil {
		p.warnf("BPMNShape for %q: %v", s.ElementID, err)
		return s, false
	}
	s.Bounds = bounds
	s.Label = p.label(el)
	s.Fill, s.Stroke = colors(el)
	return s, true
}

func (p *parser) edge(el *etree.Element) Edge {
	e := Edge{
		ID:        attr(el, "id"),
		ElementID: attr(el, "bpmnElement"),
	}
	for _, wp := range el.SelectElements("waypoint") {
		x, errX := strconv.ParseFloat(attr(wp, "x"), 64)
		y, errY := strconv.ParseFloat(attr(wp, "y"), 64)
		if errX != nil || errY != nil {
			p.warnf("BPMNEdge for %q: invalid waypoint dropped", e.ElementID)
			continue
		}
		e.Waypoints = append(e.Waypoints, geom.Point{X: x, Y: y})
	}
	e.Label = p.label(el)
	return e
}

func (p *parser) label(el *etree.Element) *geom.Rect {
	lbl := el.SelectElement("BPMNLabel")
	if lbl == nil {
		return nil
	}
	b := lbl.SelectElement("Bounds")
	if b == nil {
		return nil
	}
	r, err := readBounds(b)
	if err != nil {
		return nil
	}
	return &r
}

func (p *parser) warnf(format string, args ...any) {
	p.doc.Warnings = append(p.doc.Warnings, fmt.Sprintf(format, args...))
}

// readBounds reads a dc:Bounds element.
func readBounds(el *etree.Element) (geom.Rect, error) {
	var vals [4]float64
	for i, key := range [...]string{"x", "y", "width", "height"} {
		v, err := strconv.ParseFloat(attr(el, key), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("invalid bounds %s=%q", key, attr(el, key))
		}
		vals[i] = v
	}
	if vals[2] < 0 || vals[3] < 0 {
		return geom.Rect{}, fmt.Errorf("negative bounds size %vx%v", vals[2], vals[3])
	}
	return geom.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// colors reads the bpmn.io (bioc:fill/stroke) and OMG colour extension
// (color:background-color/border-color) attributes. bioc wins when both
// are present.
func colors(el *etree.Element) (fill, stroke string) {
	var bgColor, borderColor string
	for _, a := range el.Attr {
		ns := a.NamespaceURI()
		switch {
		case a.Key == "fill" && (ns == NSBioc || a.Space == "bioc"):
			fill = a.Value
		case a.Key == "stroke" && (ns == NSBioc || a.Space == "bioc"):
			stroke = a.Value
		case a.Key == "background-color" && (ns == NSColor || a.Space == "color"):
			bgColor = a.Value
		case a.Key == "border-color" && (ns == NSColor || a.Space == "color"):
			borderColor = a.Value
		}
	}
	if fill == "" {
		fill = bgColor
	}
	if stroke == "" {
		stroke = borderColor
	}
	return strings.TrimSpace(fill), strings.TrimSpace(stroke)
}

func attr(el *etree.Element, key string) string {
	return el.SelectAttrValue(key, "")
}

func boolAttr(el *etree.Element, key string) *bool {
	v := el.SelectAttrValue(key, "")
	if v == "" {
		return nil
	}
	b := strings.EqualFold(v, "true")
	return &b
}
