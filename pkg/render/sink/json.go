package sink

import (
	"encoding/json"

	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	geometry bool
	source   string
}

// WithJSONGeometry includes every shape's geometry sections. They are
// omitted by default to keep the dump readable.
func WithJSONGeometry() JSONOption { return func(r *jsonRenderer) { r.geometry = true } }

// WithJSONSource records the input file name in the output.
func WithJSONSource(name string) JSONOption { return func(r *jsonRenderer) { r.source = name } }

type jsonOutput struct {
	Source     string            `json:"source,omitempty"`
	Name       string            `json:"name"`
	PageWidth  float64           `json:"page_width"`
	PageHeight float64           `json:"page_height"`
	Shapes     []shape.Shape     `json:"shapes"`
	Connectors []shape.Connector `json:"connectors"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// RenderJSON dumps the drawing as indented JSON.
func RenderJSON(dr *shape.Drawing, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Source:     r.source,
		Name:       dr.Name,
		PageWidth:  dr.PageWidth,
		PageHeight: dr.PageHeight,
		Shapes:     make([]shape.Shape, len(dr.Shapes)),
		Connectors: dr.Connectors,
		Warnings:   dr.Warnings,
	}
	copy(out.Shapes, dr.Shapes)
	if !r.geometry {
		for i := range out.Shapes {
			out.Shapes[i].Geometry = nil
		}
	}
	if out.Connectors == nil {
		out.Connectors = []shape.Connector{}
	}
	return json.MarshalIndent(out, "", "  ")
}
