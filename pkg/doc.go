// Package pkg provides the libraries behind bpmn2vsdx, a converter from
// BPMN 2.0 diagrams to Visio drawings.
//
// # Overview
//
// A BPMN file carries two things: the semantic model (processes, tasks,
// events, gateways, flows) and the diagram interchange (where each of them
// was drawn). The converter keeps that layout and redraws it as native Visio
// shapes and glued connectors:
//
//	BPMN XML
//	    ↓
//	[bpmn] package (read semantic elements and DI geometry)
//	    ↓
//	[diagram] package (resolve DI against semantics, drop what cannot be drawn)
//	    ↓
//	[geom] package (pixels → inches, y-axis flip, page size)
//	    ↓
//	[render/shape] package (shapes, geometry sections, routed connectors)
//	    ↓
//	[render/sink] package (VSDX via [opc], SVG/PDF/PNG preview, JSON)
//
// # Quick Start
//
//	doc, _ := bpmn.ParseFile("order.bpmn")
//	d, stats, _ := diagram.Build(doc, diagram.BuildOptions{})
//	dr := shape.Synthesize(d, d.Transform(geom.Options{}), shape.DefaultPalette())
//	data, _ := sink.RenderVSDX(dr)
//
// Most callers use [pipeline] instead, which runs the same stages with
// caching, hooks and batch conversion:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res := runner.Batch(ctx, paths, "out", pipeline.Options{}, pipeline.BatchOptions{Workers: 8})
//
// # Main Packages
//
// [bpmn] - Namespace-agnostic reader for BPMN 2.0 documents.
//
// [diagram] - The format-agnostic element and flow model with its closed
// kind taxonomy.
//
// [geom] - Points, rectangles and the source-to-page transform.
//
// [render/shape] - Shape synthesis: per-kind primitives, markers, text
// blocks and orthogonal connector routing.
//
// [render/sink] - Output formats. VSDX is an Open Packaging Conventions zip
// assembled by [opc].
//
// [render/nodelink] - Graphviz flow-graph preview used by `bpmn2vsdx inspect`.
//
// [pipeline] - Orchestration (parse → build → synthesize → render), caching
// and batch conversion.
//
// [cache], [config], [report], [watch], [observability] and [errors] provide
// the supporting infrastructure.
//
// [bpmn]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/bpmn
// [diagram]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/diagram
// [geom]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/geom
// [render/shape]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/render/shape
// [render/sink]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/render/nodelink
// [opc]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/opc
// [pipeline]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/cache
// [config]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/config
// [report]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/report
// [watch]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/watch
// [observability]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/observability
// [errors]: https://pkg.go.dev/github.com/Mgabr90/bpmn-to-visio/pkg/errors
package pkg
