// Package raster converts raster images into dot patterns.
//
// The pipeline order is fixed: grayscale, optional blur, optional
// contrast stretch, resize to the target grid, optional error-diffusion
// dither, threshold. Params controls every step.
package raster

import (
	"fmt"
	"image"

	"github.com/printlab/dotforge/pkg/pattern"
)

// ImageError describes a failure to decode or convert an image.
type ImageError struct {
	Op  string
	Msg string
	Err error
}

func (e *ImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *ImageError) Unwrap() error { return e.Err }

// Convert runs the image-to-pattern pipeline. A cell becomes active
// when its final gray value is >= Threshold; Invert flips the result.
func Convert(img image.Image, p Params) (*pattern.Pattern, error) {
	if img == nil {
		return nil, &ImageError{Op: "convert", Msg: "nil image"}
	}
	if err := p.Err(); err != nil {
		return nil, &ImageError{Op: "convert", Msg: "invalid parameters", Err: err}
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return nil, &ImageError{Op: "convert", Msg: "image has no pixels"}
	}

	g := toGray(img, p.Grayscale)
	g = applyBlur(g, p.Blur)
	if p.ContrastStretch {
		stretchContrast(g)
	}
	g = resizeGray(g, p)

	w, h := p.TargetWidth, p.TargetHeight
	vals := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			vals[y*w+x] = float64(g.Pix[y*g.Stride+x])
		}
	}
	applyDither(vals, w, h, p.Dither, float64(p.Threshold))

	cells := make([]bool, w*h)
	for i, v := range vals {
		on := v >= float64(p.Threshold)
		if p.Invert {
			on = !on
		}
		cells[i] = on
	}
	meta := pattern.Meta{Source: pattern.SourceImage, Conversion: p.Summary()}
	return pattern.New(w, h, cells, meta)
}
