package sink

import (
	"fmt"
	"strconv"

	"github.com/Mgabr90/bpmn-to-visio/pkg/opc"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

func documentXML(application string) ([]byte, error) {
	doc, root := newVisioDocument("VisioDocument", true)

	props := root.CreateElement("DocumentProperties")
	props.CreateElement("Creator").SetText(application)
	root.CreateElement("DocumentSettings")
	root.CreateElement("Colors")

	face := root.CreateElement("FaceNames").CreateElement("FaceName")
	face.CreateAttr("ID", "0")
	face.CreateAttr("Name", "Calibri")
	face.CreateAttr("UnicodeRanges", "-1 -1 0 0")
	face.CreateAttr("CharSets", "536871423 0")
	face.CreateAttr("Panos", "2 15 5 2 2 2 4 3 2 4")

	style := root.CreateElement("StyleSheets").CreateElement("StyleSheet")
	style.CreateAttr("ID", "0")
	style.CreateAttr("NameU", "Normal")
	style.CreateAttr("Name", "Normal")
	cell(style, "LineWeight", "0.01")
	cell(style, "LineColor", "#333333")
	cell(style, "FillForegnd", "#FFFFFF")
	cell(style, "CharFont", "0")
	cell(style, "TxtHeight", "0.1111")

	return opc.Marshal(doc)
}

func pagesXML(name string, width, height float64) ([]byte, error) {
	doc, root := newVisioDocument("Pages", true)
	page := root.CreateElement("Page")
	page.CreateAttr("ID", "0")
	page.CreateAttr("NameU", name)
	page.CreateAttr("Name", name)

	sheet := page.CreateElement("PageSheet")
	numCell(sheet, "PageWidth", width)
	numCell(sheet, "PageHeight", height)
	cell(sheet, "DrawingScale", "1")
	cell(sheet, "PageScale", "1")
	cell(sheet, "DrawingSizeType", "0")

	page.CreateElement("Rel").CreateAttr("r:id", "rId1")
	return opc.Marshal(doc)
}

func windowsXML() ([]byte, error) {
	doc, root := newVisioDocument("Windows", false)
	root.CreateAttr("ClientWidth", "1024")
	root.CreateAttr("ClientHeight", "768")

	w := root.CreateElement("Window")
	for _, a := range [][2]string{
		{"ID", "0"}, {"WindowType", "Drawing"}, {"WindowState", "1073741824"},
		{"WindowLeft", "0"}, {"WindowTop", "0"},
		{"WindowWidth", "1024"}, {"WindowHeight", "768"},
		{"Page", "0"},
	} {
		w.CreateAttr(a[0], a[1])
	}
	w.CreateElement("StencilGroup")
	w.CreateElement("StencilGroupPos")
	for _, kv := range [][2]string{
		{"ShowRulers", "1"},
		{"ShowGrid", "1"},
		{"ShowPageBreaks", "0"},
		{"ShowGuides", "1"},
		{"ShowConnectionPoints", "1"},
		{"GlueSettings", "9"},
		{"SnapSettings", "65847"},
		{"SnapExtensions", "34"},
		{"DynamicGridEnabled", "1"},
		{"TabSplitterPos", "0.5"},
	} {
		w.CreateElement(kv[0]).SetText(kv[1])
	}
	return opc.Marshal(doc)
}

// ====================================================================
// Masters
// ====================================================================

// master is one stencil master: a unit-size shape of a single primitive.
type master struct {
	id       int
	prim     shape.Primitive
	part     string
	relID    string
	uniqueID string
}

// masterSet holds one master per primitive used on the page.
type masterSet struct {
	list   []master
	byPrim map[shape.Primitive]int
}

func newMasterSet(drawing string, prims []shape.Primitive) *masterSet {
	ms := &masterSet{byPrim: make(map[shape.Primitive]int)}
	for i, p := range prims {
		id := i + 1
		ms.list = append(ms.list, master{
			id:       id,
			prim:     p,
			part:     fmt.Sprintf("/visio/masters/master%d.xml", id),
			relID:    "rId" + strconv.Itoa(id),
			uniqueID: UniqueID(drawing, "master:"+p.String()),
		})
		ms.byPrim[p] = id
	}
	return ms
}

// id returns the master ID for p, or 0 when p has no master.
func (ms *masterSet) id(p shape.Primitive) int {
	return ms.byPrim[p]
}

func (ms *masterSet) directoryXML() ([]byte, error) {
	doc, root := newVisioDocument("Masters", true)
	for _, m := range ms.list {
		el := root.CreateElement("Master")
		el.CreateAttr("ID", strconv.Itoa(m.id))
		el.CreateAttr("NameU", m.prim.String())
		el.CreateAttr("Name", m.prim.String())
		el.CreateAttr("UniqueID", m.uniqueID)
		el.CreateAttr("IconSize", "1")
		el.CreateAttr("PatternFlags", "0")
		el.CreateAttr("Hidden", "0")
		el.CreateAttr("MatchByName", "0")

		sheet := el.CreateElement("PageSheet")
		cell(sheet, "PageWidth", "1")
		cell(sheet, "PageHeight", "1")
		cell(sheet, "DrawingScale", "1")
		cell(sheet, "PageScale", "1")

		el.CreateElement("Rel").CreateAttr("r:id", m.relID)
	}
	return opc.Marshal(doc)
}

// masterXML returns the contents of one master: a 1×1 inch shape with the
// primitive's outline.
func masterXML(m master) ([]byte, error) {
	doc, root := newVisioDocument("MasterContents", true)
	el := root.CreateElement("Shapes").CreateElement("Shape")
	el.CreateAttr("ID", "1")
	el.CreateAttr("Type", "Shape")
	el.CreateAttr("NameU", m.prim.String())

	cell(el, "PinX", "0.5")
	cell(el, "PinY", "0.5")
	cell(el, "Width", "1")
	cell(el, "Height", "1")
	cell(el, "LocPinX", "0.5").CreateAttr("F", "Width*0.5")
	cell(el, "LocPinY", "0.5").CreateAttr("F", "Height*0.5")

	outline := shape.Outline(m.prim, 1, 1)
	writeGeometry(el, 0, outline, identity)
	return opc.Marshal(doc)
}
