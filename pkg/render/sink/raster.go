package sink

import (
	"github.com/Mgabr90/bpmn-to-visio/pkg/render"
	"github.com/Mgabr90/bpmn-to-visio/pkg/render/shape"
)

// RasterOption configures [RenderPDF] and [RenderPNG].
type RasterOption func(*raster)

type raster struct {
	svg   []SVGOption
	scale float64
}

// WithRasterSVG passes options to the SVG preview the raster is made from.
func WithRasterSVG(opts ...SVGOption) RasterOption {
	return func(r *raster) { r.svg = opts }
}

// WithScale sets the PNG resolution multiplier; the default is 2. PDF
// output is vector and ignores it.
func WithScale(s float64) RasterOption {
	return func(r *raster) { r.scale = s }
}

func newRaster(opts []RasterOption) raster {
	r := raster{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderPDF converts the SVG preview of dr to PDF with rsvg-convert.
func RenderPDF(dr *shape.Drawing, opts ...RasterOption) ([]byte, error) {
	r := newRaster(opts)
	return render.ToPDF(RenderSVG(dr, r.svg...))
}

// RenderPNG converts the SVG preview of dr to PNG with rsvg-convert.
func RenderPNG(dr *shape.Drawing, opts ...RasterOption) ([]byte, error) {
	r := newRaster(opts)
	return render.ToPNG(RenderSVG(dr, r.svg...), r.scale)
}
