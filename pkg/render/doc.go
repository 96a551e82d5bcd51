// Package render turns a diagram model into output documents.
//
// # Overview
//
// Rendering happens in two steps. The [shape] subpackage synthesizes a
// page-space drawing from a [diagram.Diagram]: one shape per element, one
// connector per flow, all in inches. The [sink] subpackage then writes that
// drawing in a concrete format:
//
//   - VSDX: the Visio package, the converter's primary output
//   - SVG: a browser-viewable preview of the same drawing
//   - PDF/PNG: the SVG preview converted with rsvg-convert
//   - JSON: the drawing itself, for debugging and tooling
//
// The [nodelink] subpackage renders a different view: the flow graph as a
// Graphviz diagram, ignoring the source layout.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(drawing)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// [shape]: github.com/Mgabr90/bpmn-to-visio/pkg/render/shape
// [sink]: github.com/Mgabr90/bpmn-to-visio/pkg/render/sink
// [nodelink]: github.com/Mgabr90/bpmn-to-visio/pkg/render/nodelink
// [diagram.Diagram]: github.com/Mgabr90/bpmn-to-visio/pkg/diagram
package render
