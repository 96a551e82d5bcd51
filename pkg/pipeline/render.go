package pipeline

import (
	"fmt"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(dr *shape.Drawing, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(dr, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(dr *shape.Drawing, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatVSDX:
		var vopts []sink.VSDXOption
		if opts.PageName != "" {
			vopts = append(vopts, sink.WithPageName(opts.PageName))
		}
		return sink.RenderVSDX(dr, vopts...)
	case FormatSVG:
		return sink.RenderSVG(dr), nil
	case FormatPDF:
		return sink.RenderPDF(dr)
	case FormatPNG:
		return sink.RenderPNG(dr, sink.WithScale(opts.PNGScale))
	case FormatJSON:
		return sink.RenderJSON(dr)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}
