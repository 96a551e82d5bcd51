// Package nodelink renders diagrams as Graphviz node-link graphs.
//
// # Overview
//
// This package ignores the BPMN diagram-interchange coordinates and lets
// Graphviz lay the process out again. It is a quick way to check the
// structure of a diagram whose own layout is cluttered or missing.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Mapping
//
// Pools and lanes become nested clusters. Events are circles, gateways are
// diamonds, activities are rounded boxes and annotations are notes.
// Message flows are dashed and associations dotted. A flow that ends on a
// pool or lane with content is clipped to the cluster border.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
