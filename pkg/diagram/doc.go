// Package diagram holds the format-agnostic model of a BPMN diagram.
//
// [Build] joins the semantic elements read by package bpmn with their
// diagram interchange shapes and edges. The result is a flat, immutable
// [Diagram]: elements and flows in source coordinates, linked by id only.
// Containment (an element inside a lane, a lane inside a pool) is recorded
// as [Element.ParentID].
//
// Renderers consume a Diagram without knowing anything about BPMN XML:
//
//	doc, _ := bpmn.ParseFile("order.bpmn")
//	d, stats, err := diagram.Build(doc, diagram.BuildOptions{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(stats.Elements, "elements,", stats.SkippedShapes, "skipped")
package diagram
