// Package sink writes a synthesized [shape.Drawing] in concrete output formats.
//
// # Overview
//
// A "sink" transforms a drawing into bytes. This package provides:
//
//   - VSDX: the Visio package (Open Packaging Conventions zip)
//   - SVG: a preview of the same drawing
//   - PDF/PNG: the SVG preview converted with rsvg-convert
//   - JSON: the drawing itself, for debugging
//
// # VSDX Output
//
// [RenderVSDX] assembles the package parts: document, page directory, one
// page, windows, a master per primitive used and the document properties.
// Shapes on the page get IDs from a per-page allocator starting at 1, in
// z-order, followed by the connectors. Connectors are 1-D shapes whose
// begin and end points are glued to their source and target shapes in a
// Connects section.
//
//	data, err := sink.RenderVSDX(drawing, sink.WithPageName("Order handling"))
//
// Output is reproducible: shape UniqueIDs are name-based UUIDs of the
// drawing name and shape id, and zip entries carry a fixed timestamp.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render the drawing by first generating SVG,
// then converting via [render.ToPDF] and [render.ToPNG]. These require
// librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [shape.Drawing]: github.com/Mgabr90/bpmn-to-visio/pkg/render/shape.Drawing
// [render.ToPDF]: github.com/Mgabr90/bpmn-to-visio/pkg/render.ToPDF
// [render.ToPNG]: github.com/Mgabr90/bpmn-to-visio/pkg/render.ToPNG
package sink
