// Package bpmn reads BPMN 2.0 XML documents, including the BPMNDI diagram
// interchange section, into a flat parse tree.
//
// The reader is deliberately shallow: it records what a drawing needs
// (element tags, names, containment, flows, shape bounds, edge waypoints and
// colour extensions) and nothing about execution semantics. Elements are
// matched by local tag name so documents using the bpmn:, bpmn2:, semantic:
// or default namespace prefixes all parse the same way.
//
// # Usage
//
//	doc, err := bpmn.ParseFile("order.bpmn")
//	if err != nil {
//	    return err // MALFORMED_XML or INVALID_INPUT
//	}
//	if !doc.HasDiagram() {
//	    // no layout information at all
//	}
//	for _, s := range doc.Planes[0].Shapes {
//	    fmt.Println(s.ElementID, s.Bounds)
//	}
package bpmn
