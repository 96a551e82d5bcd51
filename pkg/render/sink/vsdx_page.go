package sink

import (
	"math"
	"strconv"

	"github.com/beevik/etree"

	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
	"github.com/Mgabr90/bpmn-to-visio/pkg/opc"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// connectorHeight is the nominal height of a 1-D connector shape. Geometry
// is centred on the begin-end line inside it.
const connectorHeight = 0.25

// flowKey namespaces connector IDs apart from shape IDs in the allocator.
func flowKey(id string) string { return "flow:" + id }

func (r *vsdxRenderer) page(dr *shape.Drawing, masters *masterSet) ([]byte, error) {
	ids := newIDAllocator()
	doc, root := newVisioDocument("PageContents", true)
	shapes := root.CreateElement("Shapes")

	for _, s := range dr.Shapes {
		id, err := ids.alloc(s.ID)
		if err != nil {
			return nil, err
		}
		writeShape(shapes, id, s, UniqueID(dr.Name, s.ID), masters.id(s.Primitive))
	}

	type glue struct{ conn, src, dst int }
	var glues []glue
	for _, c := range dr.Connectors {
		id, err := ids.alloc(flowKey(c.FlowID))
		if err != nil {
			return nil, err
		}
		writeConnector(shapes, id, c, UniqueID(dr.Name, flowKey(c.FlowID)))
		src, okS := ids.lookup(c.SourceID)
		dst, okT := ids.lookup(c.TargetID)
		if okS && okT {
			glues = append(glues, glue{id, src, dst})
		}
	}

	if r.connects && len(glues) > 0 {
		connects := root.CreateElement("Connects")
		for _, g := range glues {
			writeConnect(connects, g.conn, "BeginX", 9, g.src)
			writeConnect(connects, g.conn, "EndX", 12, g.dst)
		}
	}
	return opc.Marshal(doc)
}

// writeConnect glues one end of a connector to a shape. FromPart 9 is the
// begin point and 12 the end point; ToPart 3 glues to the whole shape.
func writeConnect(parent *etree.Element, from int, fromCell string, fromPart, to int) {
	c := parent.CreateElement("Connect")
	c.CreateAttr("FromSheet", strconv.Itoa(from))
	c.CreateAttr("FromCell", fromCell)
	c.CreateAttr("FromPart", strconv.Itoa(fromPart))
	c.CreateAttr("ToSheet", strconv.Itoa(to))
	c.CreateAttr("ToCell", "PinX")
	c.CreateAttr("ToPart", "3")
}

// ====================================================================
// 2-D shapes
// ====================================================================

func writeShape(parent *etree.Element, id int, s shape.Shape, uniqueID string, master int) {
	el := parent.CreateElement("Shape")
	el.CreateAttr("ID", strconv.Itoa(id))
	el.CreateAttr("NameU", s.ID)
	el.CreateAttr("Name", s.ID)
	el.CreateAttr("Type", "Shape")
	if master > 0 {
		el.CreateAttr("Master", strconv.Itoa(master))
	}
	el.CreateAttr("UniqueID", uniqueID)

	b := s.Bounds
	c := b.Center()
	numCell(el, "PinX", c.X)
	numCell(el, "PinY", c.Y)
	numCell(el, "Width", b.Width)
	numCell(el, "Height", b.Height)
	numCell(el, "LocPinX", b.Width/2).CreateAttr("F", "Width*0.5")
	numCell(el, "LocPinY", b.Height/2).CreateAttr("F", "Height*0.5")
	cell(el, "Angle", "0")
	cell(el, "FlipX", "0")
	cell(el, "FlipY", "0")
	cell(el, "ResizeMode", "0")

	writeTextBlock(el, s.TextBlock)
	if s.Style.Rounding > 0 {
		numCell(el, "Rounding", s.Style.Rounding)
	}
	writeFill(el, s.Style.Fill)
	writeLine(el, s.Style)
	writeText(el, s.Style)

	for i, p := range s.Geometry {
		writeGeometry(el, i, p, identity)
	}

	writeProperties(el, s.ElementID, s.Tag)
	if s.Text != "" {
		el.CreateElement("Text").SetText(s.Text)
	}
}

func writeTextBlock(el *etree.Element, tb shape.TextBlock) {
	numCell(el, "TxtAngle", tb.Angle)
	numCell(el, "TxtPinX", tb.PinX)
	numCell(el, "TxtPinY", tb.PinY)
	numCell(el, "TxtWidth", tb.Width)
	numCell(el, "TxtHeight", tb.Height)
	numCell(el, "TxtLocPinX", tb.Width/2)
	numCell(el, "TxtLocPinY", tb.Height/2)
}

func writeFill(el *etree.Element, fill string) {
	if fill == "" {
		cell(el, "FillForegnd", "#FFFFFF")
		cell(el, "FillForegndTrans", "1")
		cell(el, "FillPattern", "0")
		return
	}
	cell(el, "FillForegnd", fill)
	cell(el, "FillForegndTrans", "0")
	cell(el, "FillPattern", "1")
}

func writeLine(el *etree.Element, st shape.Style) {
	stroke := st.Stroke
	if stroke == "" {
		stroke = "#000000"
	}
	numCell(el, "LineWeight", st.LineWeight)
	cell(el, "LineColor", stroke)
	cell(el, "LinePattern", strconv.Itoa(int(st.LinePattern)))
}

// writeText adds the Character and Paragraph sections. Font sizes are
// stored in inches.
func writeText(el *etree.Element, st shape.Style) {
	ch := row(section(el, "Character", -1), 0)
	cell(ch, "Font", "0")
	numCell(ch, "Size", st.FontSize/72).CreateAttr("U", "PT")
	color := st.FontColor
	if color == "" {
		color = "#333333"
	}
	cell(ch, "Color", color)

	para := row(section(el, "Paragraph", -1), 0)
	cell(para, "HorzAlign", strconv.Itoa(int(st.Align)))
}

// identity maps 2-D shape geometry, which is already shape-local.
func identity(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

// writeGeometry emits one Geometry section, mapping every point through
// local. Arc bows are distances and survive rotation unchanged.
func writeGeometry(el *etree.Element, ix int, p shape.Path, local func(x, y float64) geom.Point) {
	sec := section(el, "Geometry", ix)
	cell(sec, "NoFill", boolValue(p.NoFill))
	cell(sec, "NoLine", boolValue(p.NoLine))
	cell(sec, "NoShow", "0")
	cell(sec, "NoSnap", "0")

	for i, seg := range p.Segments {
		r := row(sec, i+1)
		r.CreateAttr("T", seg.Op.String())
		pt := local(seg.X, seg.Y)
		numCell(r, "X", pt.X)
		numCell(r, "Y", pt.Y)
		switch seg.Op {
		case shape.OpArcTo:
			numCell(r, "A", seg.A)
		case shape.OpEllipse:
			a := local(seg.A, seg.B)
			c := local(seg.C, seg.D)
			numCell(r, "A", a.X)
			numCell(r, "B", a.Y)
			numCell(r, "C", c.X)
			numCell(r, "D", c.Y)
		}
	}
}

// writeProperties records the source element as shape data.
func writeProperties(el *etree.Element, id, typ string) {
	sec := section(el, "Property", -1)
	prop := func(name, label, value string) {
		r := sec.CreateElement("Row")
		r.CreateAttr("N", name)
		v := cell(r, "Value", value)
		v.CreateAttr("U", "STR")
		cell(r, "Label", label)
		cell(r, "Type", "0")
	}
	prop("BpmnId", "BPMN Id", id)
	prop("BpmnType", "BPMN Type", typ)
}

// ====================================================================
// 1-D connectors
// ====================================================================

// writeConnector emits a 1-D shape from the first to the last route
// point. Geometry lives in the connector's rotated local frame: x along
// begin→end, y along its left normal, offset by half the shape height.
func writeConnector(parent *etree.Element, id int, c shape.Connector, uniqueID string) {
	el := parent.CreateElement("Shape")
	el.CreateAttr("ID", strconv.Itoa(id))
	el.CreateAttr("NameU", c.FlowID)
	el.CreateAttr("Name", c.FlowID)
	el.CreateAttr("Type", "Shape")
	el.CreateAttr("UniqueID", uniqueID)

	begin, end := c.Route[0], c.Route[len(c.Route)-1]
	f := newFrame(begin, end)

	cell(el, "ObjType", "2")
	numCell(el, "PinX", (begin.X+end.X)/2)
	numCell(el, "PinY", (begin.Y+end.Y)/2)
	numCell(el, "Width", f.length)
	numCell(el, "Height", connectorHeight)
	numCell(el, "LocPinX", f.length/2).CreateAttr("F", "Width*0.5")
	numCell(el, "LocPinY", connectorHeight/2).CreateAttr("F", "Height*0.5")
	numCell(el, "Angle", f.angle)
	numCell(el, "BeginX", begin.X)
	numCell(el, "BeginY", begin.Y)
	numCell(el, "EndX", end.X)
	numCell(el, "EndY", end.Y)

	if c.Text != "" {
		tb := f.local(c.TextBox.Center())
		writeTextBlock(el, shape.TextBlock{
			PinX:   tb.X,
			PinY:   tb.Y,
			Width:  c.TextBox.Width,
			Height: c.TextBox.Height,
			Angle:  -f.angle,
		})
	}

	// The arrowhead is filled with the line colour.
	cell(el, "FillForegnd", c.Style.Stroke)
	cell(el, "FillForegndTrans", "0")
	cell(el, "FillPattern", "1")
	writeLine(el, c.Style)
	cell(el, "BeginArrow", "0")
	cell(el, "EndArrow", "0")
	if c.Text != "" {
		writeText(el, c.Style)
	}

	local := func(x, y float64) geom.Point { return f.local(geom.Point{X: x, Y: y}) }
	writeGeometry(el, 0, shape.RoundedPath(c.Route, shape.CornerRadius), local)
	if c.Style.EndArrow {
		if head, ok := shape.ArrowHead(c.Route); ok {
			writeGeometry(el, 1, head, local)
		}
	}

	writeProperties(el, c.FlowID, c.Kind.String())
	if c.Text != "" {
		el.CreateElement("Text").SetText(c.Text)
	}
}

// frame is the local coordinate system of a 1-D shape.
type frame struct {
	origin geom.Point
	ux, uy float64
	length float64
	angle  float64
}

func newFrame(begin, end geom.Point) frame {
	f := frame{origin: begin, ux: 1}
	dx, dy := end.X-begin.X, end.Y-begin.Y
	if l := math.Hypot(dx, dy); l > geom.Epsilon {
		f.length = l
		f.ux, f.uy = dx/l, dy/l
		f.angle = math.Atan2(dy, dx)
	}
	return f
}

// local maps a page point into the frame. The left normal of (ux, uy) is
// (-uy, ux).
func (f frame) local(p geom.Point) geom.Point {
	dx, dy := p.X-f.origin.X, p.Y-f.origin.Y
	return geom.Point{
		X: dx*f.ux + dy*f.uy,
		Y: -dx*f.uy + dy*f.ux + connectorHeight/2,
	}
}
