// Package shape synthesizes page shapes and connectors from a diagram model.
//
// # Overview
//
// [Synthesize] walks a [diagram.Diagram] and produces a [Drawing]: one
// [Shape] per element (plus a text-only label shape for named events and
// gateways) and one [Connector] per flow, all in page inches with the
// origin at the bottom-left corner. Sinks such as the VSDX and SVG writers
// consume a Drawing without knowing anything about BPMN.
//
// # Kinds
//
// Each element kind has exactly one rendering:
//
//   - Events: ellipse with an optional trigger marker (envelope, clock, signal)
//   - Tasks: rounded rectangle
//   - Sub-processes: rounded rectangle with bold stroke and, when collapsed, a [+] marker
//   - Gateways: diamond with an X, + or O glyph
//   - Pools and lanes: rectangle with a header band and split line
//   - Text annotations: open bracket, unfilled, left-aligned text
//
// Explicit element colours override the [Palette] defaults; fill and
// stroke fall back independently.
//
// # Routing
//
// Flows with diagram waypoints keep them verbatim. Flows without are routed
// by [Route]: an orthogonal two-segment path between side anchors of the two
// shapes, so connectors end on outlines rather than inside shapes.
// [RoundedPath] turns a route into geometry with arcs at the corners.
//
// [diagram.Diagram]: github.com/Mgabr90/bpmn-to-visio/pkg/diagram
package shape
