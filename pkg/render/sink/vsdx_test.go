package sink

import (
	"archive/zip"
	"bytes"
	"io"
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/beevik/etree"

	"github.com/Mgabr90/bpmn-to-visio/internal/fixtures"
	"github.com/Mgabr90/bpmn-to-visio/pkg/bpmn"
	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

func drawing(t *testing.T, src string) *shape.Drawing {
	t.Helper()
	doc, err := bpmn.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	d, _, err := diagram.Build(doc, diagram.BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return shape.Synthesize(d, d.Transform(geom.Options{}), shape.Palette{})
}

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		files[f.Name] = b
	}
	return files
}

func parseXML(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("ReadFromBytes() error: %v", err)
	}
	return doc.Root()
}

func pageShapes(t *testing.T, files map[string][]byte) []*etree.Element {
	t.Helper()
	page, ok := files["visio/pages/page1.xml"]
	if !ok {
		t.Fatal("page1.xml missing")
	}
	return parseXML(t, page).FindElements("./Shapes/Shape")
}

func cellValue(el *etree.Element, name string) string {
	c := el.FindElement("./Cell[@N='" + name + "']")
	if c == nil {
		return ""
	}
	return c.SelectAttrValue("V", "")
}

func TestRenderVSDXParts(t *testing.T) {
	data, err := RenderVSDX(drawing(t, fixtures.Minimal))
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	files := unzip(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"visio/document.xml",
		"visio/_rels/document.xml.rels",
		"visio/pages/pages.xml",
		"visio/pages/_rels/pages.xml.rels",
		"visio/pages/page1.xml",
		"visio/pages/_rels/page1.xml.rels",
		"visio/windows.xml",
		"visio/masters/masters.xml",
		"visio/masters/_rels/masters.xml.rels",
		"visio/masters/master1.xml",
		"docProps/app.xml",
		"docProps/core.xml",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("part %s missing", name)
		}
	}
	// Minimal only uses ellipses.
	if _, ok := files["visio/masters/master2.xml"]; ok {
		t.Error("unexpected master2.xml")
	}
}

func TestRenderVSDXMinimalPage(t *testing.T) {
	dr := drawing(t, fixtures.Minimal)
	data, err := RenderVSDX(dr)
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	files := unzip(t, data)
	shapes := pageShapes(t, files)
	if len(shapes) != 3 {
		t.Fatalf("got %d page shapes, want 3", len(shapes))
	}

	wantNames := []string{"Start_1", "End_1", "Flow_1"}
	for i, el := range shapes {
		if got := el.SelectAttrValue("ID", ""); got != strconv.Itoa(i+1) {
			t.Errorf("shape %d ID = %s, want %d", i, got, i+1)
		}
		if got := el.SelectAttrValue("NameU", ""); got != wantNames[i] {
			t.Errorf("shape %d NameU = %s, want %s", i, got, wantNames[i])
		}
	}

	start := shapes[0]
	if got := start.SelectAttrValue("Master", ""); got != "1" {
		t.Errorf("Start_1 Master = %q, want 1", got)
	}
	s, _ := dr.Shape("Start_1")
	if got, want := cellValue(start, "PinX"), num(s.Bounds.Center().X); got != want {
		t.Errorf("Start_1 PinX = %s, want %s", got, want)
	}
	if got := cellValue(start, "FillForegnd"); got != "#C6EFCE" {
		t.Errorf("Start_1 FillForegnd = %s, want #C6EFCE", got)
	}

	conn := shapes[2]
	if got := cellValue(conn, "ObjType"); got != "2" {
		t.Errorf("connector ObjType = %s, want 2", got)
	}
	c := dr.Connectors[0]
	begin, end := c.Route[0], c.Route[len(c.Route)-1]
	checks := map[string]float64{"BeginX": begin.X, "BeginY": begin.Y, "EndX": end.X, "EndY": end.Y}
	for name, want := range checks {
		if got := cellValue(conn, name); got != num(want) {
			t.Errorf("connector %s = %s, want %s", name, got, num(want))
		}
	}
	if len(conn.FindElements("./Section[@N='Geometry']")) != 2 {
		t.Errorf("connector should carry a line and an arrowhead geometry")
	}

	connects := parseXML(t, files["visio/pages/page1.xml"]).FindElements("./Connects/Connect")
	if len(connects) != 2 {
		t.Fatalf("got %d connects, want 2", len(connects))
	}
	want := [][3]string{{"BeginX", "9", "1"}, {"EndX", "12", "2"}}
	for i, w := range want {
		el := connects[i]
		if el.SelectAttrValue("FromSheet", "") != "3" ||
			el.SelectAttrValue("FromCell", "") != w[0] ||
			el.SelectAttrValue("FromPart", "") != w[1] ||
			el.SelectAttrValue("ToSheet", "") != w[2] {
			t.Errorf("connect %d = %v, want from 3 %v", i, el.Attr, w)
		}
	}
}

func TestRenderVSDXCollaboration(t *testing.T) {
	dr := drawing(t, fixtures.Collaboration)
	data, err := RenderVSDX(dr)
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	files := unzip(t, data)
	shapes := pageShapes(t, files)

	if got, want := len(shapes), len(dr.Shapes)+len(dr.Connectors); got != want {
		t.Fatalf("got %d page shapes, want %d", got, want)
	}

	seenID := make(map[string]bool)
	seenUnique := make(map[string]bool)
	guid := regexp.MustCompile(`^\{[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\}$`)
	for _, el := range shapes {
		id := el.SelectAttrValue("ID", "")
		if seenID[id] {
			t.Errorf("duplicate shape ID %s", id)
		}
		seenID[id] = true
		u := el.SelectAttrValue("UniqueID", "")
		if !guid.MatchString(u) {
			t.Errorf("UniqueID %q is not a braced upper-case GUID", u)
		}
		if seenUnique[u] {
			t.Errorf("duplicate UniqueID %s", u)
		}
		seenUnique[u] = true
	}

	masters := parseXML(t, files["visio/masters/masters.xml"]).FindElements("./Master")
	if got, want := len(masters), len(dr.UsedPrimitives()); got != want {
		t.Errorf("got %d masters, want %d", got, want)
	}
	for i, p := range dr.UsedPrimitives() {
		if got := masters[i].SelectAttrValue("NameU", ""); got != p.String() {
			t.Errorf("master %d = %s, want %s", i+1, got, p)
		}
	}

	glued := 0
	for _, c := range dr.Connectors {
		_, okS := dr.Shape(c.SourceID)
		_, okT := dr.Shape(c.TargetID)
		if okS && okT {
			glued++
		}
	}
	connects := parseXML(t, files["visio/pages/page1.xml"]).FindElements("./Connects/Connect")
	if len(connects) != 2*glued {
		t.Errorf("got %d connects, want %d", len(connects), 2*glued)
	}
}

func TestRenderVSDXDeterministic(t *testing.T) {
	a, err := RenderVSDX(drawing(t, fixtures.Collaboration))
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	b, err := RenderVSDX(drawing(t, fixtures.Collaboration))
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two renders of the same drawing differ")
	}
}

func TestRenderVSDXOptions(t *testing.T) {
	data, err := RenderVSDX(drawing(t, fixtures.Minimal),
		WithPageName("Order handling"),
		WithApplication("acme"),
		WithoutConnects())
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	files := unzip(t, data)

	page := parseXML(t, files["visio/pages/pages.xml"]).FindElement("./Page")
	if got := page.SelectAttrValue("NameU", ""); got != "Order handling" {
		t.Errorf("page NameU = %q, want Order handling", got)
	}
	if !bytes.Contains(files["docProps/app.xml"], []byte("acme")) {
		t.Error("app.xml does not name the application")
	}
	if parseXML(t, files["visio/pages/page1.xml"]).FindElement("./Connects") != nil {
		t.Error("Connects written despite WithoutConnects")
	}
}

func TestRenderVSDXEmptyDrawing(t *testing.T) {
	dr := &shape.Drawing{Name: "empty", PageWidth: 11, PageHeight: 8.5}
	data, err := RenderVSDX(dr)
	if err != nil {
		t.Fatalf("RenderVSDX() error: %v", err)
	}
	files := unzip(t, data)
	if n := len(pageShapes(t, files)); n != 0 {
		t.Errorf("got %d page shapes, want 0", n)
	}
	if masters := parseXML(t, files["visio/masters/masters.xml"]).FindElements("./Master"); len(masters) != 0 {
		t.Errorf("got %d masters, want 0", len(masters))
	}
}

func TestIDAllocator(t *testing.T) {
	ids := newIDAllocator()
	for i, key := range []string{"A", "B", flowKey("A")} {
		id, err := ids.alloc(key)
		if err != nil {
			t.Fatalf("alloc(%q) error: %v", key, err)
		}
		if id != i+1 {
			t.Errorf("alloc(%q) = %d, want %d", key, id, i+1)
		}
	}
	if id, ok := ids.lookup("B"); !ok || id != 2 {
		t.Errorf("lookup(B) = %d, %v, want 2, true", id, ok)
	}
	if _, ok := ids.lookup("C"); ok {
		t.Error("lookup(C) found an unallocated key")
	}
	_, err := ids.alloc("A")
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("alloc(A) twice error = %v, want internal", err)
	}
}

func TestUniqueID(t *testing.T) {
	a := UniqueID("diagram", "Task_1")
	if a != UniqueID("diagram", "Task_1") {
		t.Error("UniqueID is not stable")
	}
	if a == UniqueID("diagram", "Task_2") {
		t.Error("UniqueID collides across shape ids")
	}
	if a == UniqueID("other", "Task_1") {
		t.Error("UniqueID collides across drawings")
	}
}

func TestFrame(t *testing.T) {
	begin, end := geom.Point{X: 1, Y: 1}, geom.Point{X: 1, Y: 3}
	f := newFrame(begin, end)

	if math.Abs(f.length-2) > 1e-9 {
		t.Errorf("length = %v, want 2", f.length)
	}
	if math.Abs(f.angle-math.Pi/2) > 1e-9 {
		t.Errorf("angle = %v, want pi/2", f.angle)
	}

	tests := []struct {
		name string
		in   geom.Point
		want geom.Point
	}{
		{"begin", begin, geom.Point{X: 0, Y: connectorHeight / 2}},
		{"end", end, geom.Point{X: 2, Y: connectorHeight / 2}},
		// Left of an upward line is -x on the page.
		{"left", geom.Point{X: 0, Y: 2}, geom.Point{X: 1, Y: 1 + connectorHeight/2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.local(tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("local(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFrameDegenerate(t *testing.T) {
	p := geom.Point{X: 2, Y: 2}
	f := newFrame(p, p)
	if f.length != 0 || f.angle != 0 {
		t.Errorf("newFrame(p, p) = length %v angle %v, want 0, 0", f.length, f.angle)
	}
	if got := f.local(geom.Point{X: 3, Y: 2}); math.Abs(got.X-1) > 1e-9 {
		t.Errorf("degenerate frame should fall back to the x axis, got %v", got)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.5, "0.5"},
		{1.23456, "1.2346"},
		{-0.00001, "0"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
