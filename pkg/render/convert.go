package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

// converter is the external SVG rasterizer.
const converter = "rsvg-convert"

// ToPDF converts an SVG document to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(context.Background(), svg, "-f", "pdf")
}

// ToPNG converts an SVG document to PNG at the given scale factor.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(context.Background(), svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(converter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "%s not found (install librsvg)", converter)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
