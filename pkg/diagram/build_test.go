package diagram

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Mgabr90/bpmn-to-visio/internal/fixtures"
	"github.com/Mgabr90/bpmn-to-visio/pkg/bpmn"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/geom"
)

func build(t *testing.T, src string) (*Diagram, Stats) {
	t.Helper()
	doc, err := bpmn.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	d, stats, err := Build(doc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return d, stats
}

func TestBuildMinimal(t *testing.T) {
	d, stats := build(t, fixtures.Minimal)

	if stats.Elements != 2 || stats.Flows != 1 || stats.SkippedShapes != 0 || stats.SkippedFlows != 0 {
		t.Errorf("stats = %+v", stats)
	}

	start, ok := d.Element("Start_1")
	if !ok {
		t.Fatal("Element(Start_1) not found")
	}
	if start.Kind != KindStartEvent {
		t.Errorf("Start_1 kind = %v, want StartEvent", start.Kind)
	}
	if !start.Horizontal {
		t.Error("Start_1 Horizontal = false, want default true")
	}

	if got := d.Flows[0].Waypoints; got != nil {
		t.Errorf("Flow_1 waypoints = %v, want nil", got)
	}

	want := geom.Rect{X: 50, Y: 50, Width: 236, Height: 36}
	if d.Extent != want {
		t.Errorf("Extent = %v, want %v", d.Extent, want)
	}
}

func TestBuildExtentIncludesLabels(t *testing.T) {
	src := strings.Replace(fixtures.Minimal, `<dc:Bounds x="50" y="50" width="36" height="36"/>`,
		`<dc:Bounds x="50" y="50" width="36" height="36"/>
        <bpmndi:BPMNLabel><dc:Bounds x="-40" y="100" width="120" height="14"/></bpmndi:BPMNLabel>`, 1)
	src = strings.Replace(src, `    </bpmndi:BPMNPlane>`, `      <bpmndi:BPMNEdge id="Flow_1_di" bpmnElement="Flow_1">
        <di:waypoint x="86" y="68"/>
        <di:waypoint x="250" y="68"/>
        <bpmndi:BPMNLabel><dc:Bounds x="150" y="-20" width="40" height="14"/></bpmndi:BPMNLabel>
      </bpmndi:BPMNEdge>
    </bpmndi:BPMNPlane>`, 1)

	d, _ := build(t, src)

	want := geom.Rect{X: -40, Y: -20, Width: 326, Height: 134}
	if d.Extent != want {
		t.Errorf("Extent = %v, want %v", d.Extent, want)
	}

	// With the default margin every label lands on the page.
	tr := d.Transform(geom.Options{})
	for _, r := range []geom.Rect{{X: -40, Y: 100, Width: 120, Height: 14}, {X: 150, Y: -20, Width: 40, Height: 14}} {
		if got := tr.Rect(r); got.X < 0 || got.Y < 0 {
			t.Errorf("label %v transformed to %v, want non-negative origin", r, got)
		}
	}
}

func TestBuildCollaboration(t *testing.T) {
	d, stats := build(t, fixtures.Collaboration)

	if stats.Elements != 11 {
		t.Errorf("Elements = %d, want 11", stats.Elements)
	}
	if d.Name != "Order handling" {
		t.Errorf("Name = %q, want %q", d.Name, "Order handling")
	}

	tests := []struct {
		id       string
		kind     Kind
		parent   string
		eventDef EventDefinition
	}{
		{"Pool_Shop", KindPool, "", EventNone},
		{"Pool_Customer", KindPool, "", EventNone},
		{"Lane_Sales", KindLane, "Pool_Shop", EventNone},
		{"Lane_Store", KindLane, "Pool_Shop", EventNone},
		{"Start_1", KindStartEvent, "Lane_Sales", EventMessage},
		{"Task_Check", KindTask, "Lane_Sales", EventNone},
		{"Gw_1", KindExclusiveGateway, "Lane_Sales", EventNone},
		{"Sub_Pack", KindSubProcess, "Lane_Store", EventNone},
		{"Timer_1", KindIntermediateEvent, "Lane_Store", EventTimer},
		{"End_1", KindEndEvent, "Lane_Store", EventNone},
		{"Note_1", KindTextAnnotation, "", EventNone},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			e, ok := d.Element(tt.id)
			if !ok {
				t.Fatalf("Element(%q) not found", tt.id)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", e.Kind, tt.kind)
			}
			if e.ParentID != tt.parent {
				t.Errorf("ParentID = %q, want %q", e.ParentID, tt.parent)
			}
			if e.EventDefinition != tt.eventDef {
				t.Errorf("EventDefinition = %q, want %q", e.EventDefinition, tt.eventDef)
			}
		})
	}

	var ids []string
	for _, f := range d.Flows {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"Msg_1", "Assoc_1", "F1", "F2", "F3", "F4", "F5"}, ids); diff != "" {
		t.Errorf("flow order mismatch (-want +got):\n%s", diff)
	}

	for _, f := range d.Flows {
		switch f.ID {
		case "Msg_1":
			if f.Kind != FlowMessage {
				t.Errorf("Msg_1 kind = %v, want MessageFlow", f.Kind)
			}
		case "Assoc_1":
			if f.Kind != FlowAssociation {
				t.Errorf("Assoc_1 kind = %v, want Association", f.Kind)
			}
		case "F3":
			if f.Label != "yes" || f.LabelBounds == nil {
				t.Errorf("F3 label = %q/%v, want yes with bounds", f.Label, f.LabelBounds)
			}
		case "F5":
			if f.Waypoints != nil {
				t.Errorf("F5 waypoints = %v, want nil", f.Waypoints)
			}
		}
	}

	start, _ := d.Element("Start_1")
	if start.Fill != "#bbdefb" || start.Stroke != "#0d4372" {
		t.Errorf("Start_1 colours = %q/%q", start.Fill, start.Stroke)
	}

	lanes := d.Children("Pool_Shop")
	if len(lanes) != 2 {
		t.Errorf("Children(Pool_Shop) = %d, want 2", len(lanes))
	}
}

func TestBuildSkipsUnknownKinds(t *testing.T) {
	d, stats := build(t, fixtures.UnknownKind)

	if stats.SkippedShapes != 1 {
		t.Errorf("SkippedShapes = %d, want 1", stats.SkippedShapes)
	}
	if stats.SkippedFlows != 2 {
		t.Errorf("SkippedFlows = %d, want 2", stats.SkippedFlows)
	}
	if _, ok := d.Element("C"); ok {
		t.Error("complex gateway C was kept")
	}
	if len(d.Flows) != 1 || d.Flows[0].ID != "AB" {
		t.Fatalf("Flows = %+v, want only AB", d.Flows)
	}
	if d.Flows[0].Waypoints != nil {
		t.Errorf("AB waypoints = %v, want nil", d.Flows[0].Waypoints)
	}

	var skipped []string
	for _, s := range stats.Skips {
		skipped = append(skipped, s.ID)
	}
	if diff := cmp.Diff([]string{"C", "AC", "CB"}, skipped); diff != "" {
		t.Errorf("skips mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNestedLanes(t *testing.T) {
	d, _ := build(t, fixtures.Vertical)

	tests := []struct {
		id     string
		parent string
	}{
		{"Pool_V", ""},
		{"Lane_Outer", "Pool_V"},
		{"Lane_Inner", "Lane_Outer"},
		{"T1", "Lane_Inner"},
	}
	for _, tt := range tests {
		e, ok := d.Element(tt.id)
		if !ok {
			t.Fatalf("Element(%q) not found", tt.id)
		}
		if e.ParentID != tt.parent {
			t.Errorf("%s ParentID = %q, want %q", tt.id, e.ParentID, tt.parent)
		}
	}

	pool, _ := d.Element("Pool_V")
	if pool.Horizontal {
		t.Error("Pool_V Horizontal = true, want false")
	}
}

func TestBuildMissingDiagram(t *testing.T) {
	doc, err := bpmn.Parse([]byte(fixtures.NoDiagram))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, _, err = Build(doc, BuildOptions{})
	if !errors.Is(err, errors.ErrCodeMissingDiagram) {
		t.Errorf("Build() error = %v, want MISSING_DIAGRAM", err)
	}
}

func TestBuildNameOverride(t *testing.T) {
	doc, err := bpmn.Parse([]byte(fixtures.Minimal))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	d, _, err := Build(doc, BuildOptions{Name: "Custom"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if d.Name != "Custom" {
		t.Errorf("Name = %q, want Custom", d.Name)
	}
}

func TestBuildFallbackName(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unnamed document", fixtures.Minimal, "Order intake"},
		{"named definitions win", fixtures.Collaboration, "Order handling"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := bpmn.Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			d, _, err := Build(doc, BuildOptions{FallbackName: "Order intake"})
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if d.Name != tt.want {
				t.Errorf("Name = %q, want %q", d.Name, tt.want)
			}
		})
	}
}

func TestBuildSkipsDuplicateShapes(t *testing.T) {
	doc := &bpmn.Document{
		Nodes: []bpmn.Node{{ID: "T", Tag: "task"}},
		Planes: []bpmn.Plane{{
			Shapes: []bpmn.Shape{
				{ID: "T_di", ElementID: "T", Bounds: geom.Rect{Width: 100, Height: 80}},
				{ID: "T_di2", ElementID: "T", Bounds: geom.Rect{X: 500, Width: 100, Height: 80}},
			},
		}},
	}
	d, stats, err := Build(doc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(d.Elements) != 1 || d.Elements[0].Bounds.X != 0 {
		t.Errorf("Elements = %+v, want the first shape only", d.Elements)
	}
	if stats.SkippedShapes != 1 {
		t.Errorf("SkippedShapes = %d, want 1", stats.SkippedShapes)
	}
}

func TestBuildEmptyPlane(t *testing.T) {
	doc := &bpmn.Document{Planes: []bpmn.Plane{{}}}
	d, stats, err := Build(doc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(d.Elements) != 0 || stats.Elements != 0 {
		t.Errorf("Elements = %d, want 0", len(d.Elements))
	}
	if d.Extent != (geom.Rect{}) {
		t.Errorf("Extent = %v, want zero", d.Extent)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"order.bpmn", "order"},
		{"/tmp/in/BPMN diagram - Order Handling - V1.2.bpmn", "Order Handling"},
		{"Invoice - v3.10.xml", "Invoice"},
		{"plain name", "plain name"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DisplayName(tt.in); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Kind
		ok   bool
	}{
		{"serviceTask", KindTask, true},
		{"callActivity", KindSubProcess, true},
		{"boundaryEvent", KindIntermediateEvent, true},
		{"eventBasedGateway", KindEventBasedGateway, true},
		{"complexGateway", KindUnknown, false},
		{"dataObjectReference", KindUnknown, false},
	}
	for _, tt := range tests {
		got, ok := KindFromTag(tt.tag)
		if got != tt.want || ok != tt.ok {
			t.Errorf("KindFromTag(%q) = %v, %v, want %v, %v", tt.tag, got, ok, tt.want, tt.ok)
		}
	}
}
