package sink

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
	"github.com/Mgabr90/bpmn-to-visio/pkg/opc"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// Visio 2013+ namespaces.
const (
	NSVisio = "http://schemas.microsoft.com/office/visio/2012/main"
	NSRel   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Part names of the fixed VSDX layout.
const (
	PartDocument = "/visio/document.xml"
	PartPages    = "/visio/pages/pages.xml"
	PartPage1    = "/visio/pages/page1.xml"
	PartWindows  = "/visio/windows.xml"
	PartMasters  = "/visio/masters/masters.xml"
	PartApp      = "/docProps/app.xml"
	PartCore     = "/docProps/core.xml"
)

// Content types of the Visio parts.
const (
	ContentTypeDocument = "application/vnd.ms-visio.drawing.main+xml"
	ContentTypePages    = "application/vnd.ms-visio.pages+xml"
	ContentTypePage     = "application/vnd.ms-visio.page+xml"
	ContentTypeWindows  = "application/vnd.ms-visio.windows+xml"
	ContentTypeMasters  = "application/vnd.ms-visio.masters+xml"
	ContentTypeMaster   = "application/vnd.ms-visio.master+xml"
)

// Relationship types of the Visio parts.
const (
	RelTypeDocument = "http://schemas.microsoft.com/visio/2010/relationships/document"
	RelTypePages    = "http://schemas.microsoft.com/visio/2010/relationships/pages"
	RelTypePage     = "http://schemas.microsoft.com/visio/2010/relationships/page"
	RelTypeWindows  = "http://schemas.microsoft.com/visio/2010/relationships/windows"
	RelTypeMasters  = "http://schemas.microsoft.com/visio/2010/relationships/masters"
	RelTypeMaster   = "http://schemas.microsoft.com/visio/2010/relationships/master"
)

// DefaultApplication is written to docProps/app.xml and the document
// creator.
const DefaultApplication = "bpmn2vsdx"

// DefaultPageName is used when the drawing has no name.
const DefaultPageName = "BPMN Diagram"

// uniqueIDSpace seeds the name-based shape UniqueIDs.
var uniqueIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Mgabr90/bpmn-to-visio"))

// VSDXOption configures VSDX rendering via [RenderVSDX].
type VSDXOption func(*vsdxRenderer)

type vsdxRenderer struct {
	application string
	pageName    string
	connects    bool
}

// WithApplication sets the producing application recorded in the package.
func WithApplication(name string) VSDXOption { return func(r *vsdxRenderer) { r.application = name } }

// WithPageName overrides the page name, which defaults to the drawing name.
func WithPageName(name string) VSDXOption { return func(r *vsdxRenderer) { r.pageName = name } }

// WithoutConnects omits the Connects section, leaving connectors unglued.
func WithoutConnects() VSDXOption { return func(r *vsdxRenderer) { r.connects = false } }

// RenderVSDX assembles the drawing into a VSDX package and returns its bytes.
func RenderVSDX(dr *shape.Drawing, opts ...VSDXOption) ([]byte, error) {
	pkg, err := BuildVSDX(dr, opts...)
	if err != nil {
		return nil, err
	}
	return pkg.Bytes()
}

// BuildVSDX assembles the drawing into an OPC package without serializing
// it. The package has already passed [opc.Package.Validate].
func BuildVSDX(dr *shape.Drawing, opts ...VSDXOption) (*opc.Package, error) {
	r := vsdxRenderer{application: DefaultApplication, connects: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.pageName == "" {
		r.pageName = dr.Name
	}
	if r.pageName == "" {
		r.pageName = DefaultPageName
	}

	masters := newMasterSet(dr.Name, dr.UsedPrimitives())
	page, err := r.page(dr, masters)
	if err != nil {
		return nil, err
	}

	pkg := opc.New()
	parts := []struct {
		name, contentType string
		build             func() ([]byte, error)
	}{
		{PartDocument, ContentTypeDocument, func() ([]byte, error) { return documentXML(r.application) }},
		{PartPages, ContentTypePages, func() ([]byte, error) { return pagesXML(r.pageName, dr.PageWidth, dr.PageHeight) }},
		{PartPage1, ContentTypePage, func() ([]byte, error) { return page, nil }},
		{PartWindows, ContentTypeWindows, windowsXML},
		{PartMasters, ContentTypeMasters, masters.directoryXML},
		{PartApp, opc.ContentTypeExtendedProperties, func() ([]byte, error) { return opc.AppProperties(r.application) }},
		{PartCore, opc.ContentTypeCoreProperties, func() ([]byte, error) { return opc.CoreProperties(r.pageName, r.application) }},
	}
	for _, p := range parts {
		data, err := p.build()
		if err != nil {
			return nil, err
		}
		pkg.AddPart(p.name, p.contentType, data)
	}
	for _, m := range masters.list {
		data, err := masterXML(m)
		if err != nil {
			return nil, err
		}
		pkg.AddPart(m.part, ContentTypeMaster, data)
	}

	pkg.Relate(opc.Root, PartDocument, RelTypeDocument)
	pkg.Relate(opc.Root, PartApp, opc.RelTypeExtendedProperties)
	pkg.Relate(opc.Root, PartCore, opc.RelTypeCoreProperties)
	pkg.Relate(PartDocument, PartPages, RelTypePages)
	pkg.Relate(PartDocument, PartMasters, RelTypeMasters)
	pkg.Relate(PartDocument, PartWindows, RelTypeWindows)
	pkg.Relate(PartPages, PartPage1, RelTypePage)
	for _, m := range masters.list {
		if id := pkg.Relate(PartMasters, m.part, RelTypeMaster); id != m.relID {
			return nil, errors.New(errors.ErrCodeInternal, "master %s related as %s, want %s", m.part, id, m.relID)
		}
		pkg.Relate(PartPage1, m.part, RelTypeMaster)
	}

	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// ====================================================================
// Shape IDs
// ====================================================================

// idAllocator hands out page-unique shape IDs starting at 1.
type idAllocator struct {
	next  int
	byKey map[string]int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{next: 1, byKey: make(map[string]int)}
}

// alloc assigns the next ID to key. A key seen twice is an internal error:
// element, label and flow ids are unique in a drawing.
func (a *idAllocator) alloc(key string) (int, error) {
	if _, dup := a.byKey[key]; dup {
		return 0, errors.New(errors.ErrCodeInternal, "shape id %q allocated twice", key)
	}
	id := a.next
	a.next++
	a.byKey[key] = id
	return id, nil
}

func (a *idAllocator) lookup(key string) (int, bool) {
	id, ok := a.byKey[key]
	return id, ok
}

// UniqueID returns the deterministic Visio UniqueID of a shape: a
// name-based UUID of the drawing name and shape id, in braces.
func UniqueID(drawing, id string) string {
	u := uuid.NewSHA1(uniqueIDSpace, []byte(drawing+"\x00"+id))
	return "{" + strings.ToUpper(u.String()) + "}"
}

// ====================================================================
// XML helpers
// ====================================================================

// num formats a value in inches with at most four decimals.
func num(v float64) string {
	return strconv.FormatFloat(geom.Round(v), 'f', -1, 64)
}

func cell(parent *etree.Element, name, value string) *etree.Element {
	c := parent.CreateElement("Cell")
	c.CreateAttr("N", name)
	c.CreateAttr("V", value)
	return c
}

func numCell(parent *etree.Element, name string, v float64) *etree.Element {
	return cell(parent, name, num(v))
}

func section(parent *etree.Element, name string, ix int) *etree.Element {
	s := parent.CreateElement("Section")
	s.CreateAttr("N", name)
	if ix >= 0 {
		s.CreateAttr("IX", strconv.Itoa(ix))
	}
	return s
}

func row(parent *etree.Element, ix int) *etree.Element {
	r := parent.CreateElement("Row")
	r.CreateAttr("IX", strconv.Itoa(ix))
	return r
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func newVisioDocument(root string, withRel bool) (*etree.Document, *etree.Element) {
	doc := opc.NewDocument()
	el := doc.CreateElement(root)
	el.CreateAttr("xmlns", NSVisio)
	if withRel {
		el.CreateAttr("xmlns:r", NSRel)
	}
	return doc, el
}
