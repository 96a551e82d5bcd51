package shape

import (
	"github.com/Mgabr90/bpmn-to-visio/pkg/diagram"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

// Palette holds the default colours applied when an element carries none.
// All values are #RRGGBB.
type Palette struct {
	StartFill        string `json:"start_fill" toml:"start_fill" yaml:"start_fill"`
	EndFill          string `json:"end_fill" toml:"end_fill" yaml:"end_fill"`
	IntermediateFill string `json:"intermediate_fill" toml:"intermediate_fill" yaml:"intermediate_fill"`
	NeutralFill      string `json:"neutral_fill" toml:"neutral_fill" yaml:"neutral_fill"`

	Stroke          string `json:"stroke" toml:"stroke" yaml:"stroke"`
	ContainerStroke string `json:"container_stroke" toml:"container_stroke" yaml:"container_stroke"`
	Text            string `json:"text" toml:"text" yaml:"text"`

	Connector      string `json:"connector" toml:"connector" yaml:"connector"`
	ConnectorLabel string `json:"connector_label" toml:"connector_label" yaml:"connector_label"`
	MessageLabel   string `json:"message_label" toml:"message_label" yaml:"message_label"`
	Association    string `json:"association" toml:"association" yaml:"association"`
}

// DefaultPalette returns the built-in colours.
func DefaultPalette() Palette {
	return Palette{
		StartFill:        "#C6EFCE",
		EndFill:          "#FFC7CE",
		IntermediateFill: "#FFE0B2",
		NeutralFill:      "#FFFFFF",
		Stroke:           "#000000",
		ContainerStroke:  "#999999",
		Text:             "#333333",
		Connector:        "#555555",
		ConnectorLabel:   "#333333",
		MessageLabel:     "#555555",
		Association:      "#999999",
	}
}

// WithDefaults fills empty fields from [DefaultPalette].
func (p Palette) WithDefaults() Palette {
	d := DefaultPalette()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.StartFill, d.StartFill)
	fill(&p.EndFill, d.EndFill)
	fill(&p.IntermediateFill, d.IntermediateFill)
	fill(&p.NeutralFill, d.NeutralFill)
	fill(&p.Stroke, d.Stroke)
	fill(&p.ContainerStroke, d.ContainerStroke)
	fill(&p.Text, d.Text)
	fill(&p.Connector, d.Connector)
	fill(&p.ConnectorLabel, d.ConnectorLabel)
	fill(&p.MessageLabel, d.MessageLabel)
	fill(&p.Association, d.Association)
	return p
}

// Validate checks every non-empty colour.
func (p Palette) Validate() error {
	for _, c := range []string{
		p.StartFill, p.EndFill, p.IntermediateFill, p.NeutralFill,
		p.Stroke, p.ContainerStroke, p.Text,
		p.Connector, p.ConnectorLabel, p.MessageLabel, p.Association,
	} {
		if c == "" {
			continue
		}
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// defaultFill returns the kind default fill; empty means unfilled.
func (p Palette) defaultFill(k diagram.Kind) string {
	switch k {
	case diagram.KindStartEvent:
		return p.StartFill
	case diagram.KindEndEvent:
		return p.EndFill
	case diagram.KindIntermediateEvent:
		return p.IntermediateFill
	case diagram.KindTextAnnotation:
		return ""
	}
	return p.NeutralFill
}

func (p Palette) defaultStroke(k diagram.Kind) string {
	switch k {
	case diagram.KindPool, diagram.KindLane, diagram.KindTextAnnotation:
		return p.ContainerStroke
	}
	return p.Stroke
}

// Line weights in inches.
const (
	weightNormal    = 0.02
	weightBold      = 0.04
	weightContainer = 0.01
)

func lineWeight(k diagram.Kind) float64 {
	switch k {
	case diagram.KindEndEvent, diagram.KindSubProcess:
		return weightBold
	case diagram.KindPool, diagram.KindLane, diagram.KindTextAnnotation:
		return weightContainer
	}
	return weightNormal
}

// resolveColors applies the element's explicit colours over the kind
// defaults. Fill and stroke fall back independently; an unparsable explicit
// colour falls back too and is reported through warn.
func (p Palette) resolveColors(e diagram.Element, warn func(string, ...any)) (fill, stroke string) {
	fill, stroke = p.defaultFill(e.Kind), p.defaultStroke(e.Kind)
	if e.Fill != "" {
		if c, ok := errors.NormalizeColor(e.Fill); ok {
			fill = c
		} else {
			warn("%s: ignoring fill %q", e.ID, e.Fill)
		}
	}
	if e.Stroke != "" {
		if c, ok := errors.NormalizeColor(e.Stroke); ok {
			stroke = c
		} else {
			warn("%s: ignoring stroke %q", e.ID, e.Stroke)
		}
	}
	return fill, stroke
}
