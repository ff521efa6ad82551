package raster

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/printlab/dotforge/pkg/pattern"
)

// GrayscaleMode selects how color pixels reduce to a single gray value.
type GrayscaleMode string

const (
	// GrayLuminance weights channels by perceived brightness
	// (0.299 R + 0.587 G + 0.114 B).
	GrayLuminance GrayscaleMode = "luminance"
	// GrayAverage uses the arithmetic mean of the channels.
	GrayAverage GrayscaleMode = "average"
	// GrayDesaturate uses the midpoint of the brightest and darkest
	// channel.
	GrayDesaturate GrayscaleMode = "desaturation"
)

// BlurMode selects the optional pre-resize smoothing filter.
type BlurMode string

const (
	BlurNone     BlurMode = "none"
	BlurBox      BlurMode = "box"
	BlurGaussian BlurMode = "gaussian"
)

// ResampleMode selects the resize filter.
type ResampleMode string

const (
	ResampleNearest  ResampleMode = "nearest"
	ResampleBilinear ResampleMode = "bilinear"
	ResampleBicubic  ResampleMode = "bicubic"
)

// DitherMode selects the error-diffusion kernel applied before
// thresholding.
type DitherMode string

const (
	DitherNone           DitherMode = "none"
	DitherFloydSteinberg DitherMode = "floyd-steinberg"
	DitherAtkinson       DitherMode = "atkinson"
	DitherSierra         DitherMode = "sierra"
)

// AspectMode controls how the source aspect ratio maps onto the target
// grid.
type AspectMode string

const (
	// AspectStretch scales each axis independently to fill the grid.
	AspectStretch AspectMode = "stretch"
	// AspectFit preserves the source aspect ratio and letterboxes the
	// remainder with FillGray.
	AspectFit AspectMode = "fit"
)

// Params controls the image-to-pattern pipeline. The zero value is not
// usable; start from DefaultParams and override fields.
type Params struct {
	Grayscale       GrayscaleMode `yaml:"grayscale"`
	Blur            BlurMode      `yaml:"blur"`
	ContrastStretch bool          `yaml:"contrast_stretch"`
	TargetWidth     int           `yaml:"target_width"`
	TargetHeight    int           `yaml:"target_height"`
	Aspect          AspectMode    `yaml:"aspect"`
	FillGray        uint8         `yaml:"fill_gray"`
	Resample        ResampleMode  `yaml:"resample"`
	Threshold       int           `yaml:"threshold"`
	Invert          bool          `yaml:"invert"`
	Dither          DitherMode    `yaml:"dither"`
}

// DefaultParams returns the conversion defaults: luminance grayscale,
// no blur, 64x64 stretch resize with bilinear filtering, threshold 128,
// no dithering.
func DefaultParams() Params {
	return Params{
		Grayscale:    GrayLuminance,
		Blur:         BlurNone,
		TargetWidth:  64,
		TargetHeight: 64,
		Aspect:       AspectStretch,
		FillGray:     255,
		Resample:     ResampleBilinear,
		Threshold:    128,
		Dither:       DitherNone,
	}
}

// Violation describes one invalid parameter value.
type Violation struct {
	Field string
	Msg   string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Msg)
}

// Validate returns all parameter violations. An empty slice means the
// parameters are usable.
func (p Params) Validate() []Violation {
	var vs []Violation
	switch p.Grayscale {
	case GrayLuminance, GrayAverage, GrayDesaturate:
	default:
		vs = append(vs, Violation{"grayscale", fmt.Sprintf("unknown mode %q", p.Grayscale)})
	}
	switch p.Blur {
	case BlurNone, BlurBox, BlurGaussian:
	default:
		vs = append(vs, Violation{"blur", fmt.Sprintf("unknown mode %q", p.Blur)})
	}
	switch p.Resample {
	case ResampleNearest, ResampleBilinear, ResampleBicubic:
	default:
		vs = append(vs, Violation{"resample", fmt.Sprintf("unknown mode %q", p.Resample)})
	}
	switch p.Dither {
	case DitherNone, DitherFloydSteinberg, DitherAtkinson, DitherSierra:
	default:
		vs = append(vs, Violation{"dither", fmt.Sprintf("unknown mode %q", p.Dither)})
	}
	switch p.Aspect {
	case AspectStretch, AspectFit:
	default:
		vs = append(vs, Violation{"aspect", fmt.Sprintf("unknown mode %q", p.Aspect)})
	}
	if p.TargetWidth < 1 || p.TargetWidth > pattern.MaxDimension {
		vs = append(vs, Violation{"target_width", fmt.Sprintf("%d outside 1..%d", p.TargetWidth, pattern.MaxDimension)})
	}
	if p.TargetHeight < 1 || p.TargetHeight > pattern.MaxDimension {
		vs = append(vs, Violation{"target_height", fmt.Sprintf("%d outside 1..%d", p.TargetHeight, pattern.MaxDimension)})
	}
	if p.Threshold < 0 || p.Threshold > 255 {
		vs = append(vs, Violation{"threshold", fmt.Sprintf("%d outside 0..255", p.Threshold)})
	}
	return vs
}

// Err joins all violations into a single error, or returns nil when the
// parameters are valid.
func (p Params) Err() error {
	var err error
	for _, v := range p.Validate() {
		err = multierr.Append(err, v)
	}
	return err
}

// Summary describes the conversion in one line, for pattern metadata
// and logs.
func (p Params) Summary() string {
	parts := []string{
		fmt.Sprintf("gray=%s", p.Grayscale),
		fmt.Sprintf("size=%dx%d", p.TargetWidth, p.TargetHeight),
		fmt.Sprintf("resample=%s", p.Resample),
		fmt.Sprintf("threshold=%d", p.Threshold),
	}
	if p.Blur != BlurNone {
		parts = append(parts, fmt.Sprintf("blur=%s", p.Blur))
	}
	if p.ContrastStretch {
		parts = append(parts, "contrast-stretch")
	}
	if p.Aspect == AspectFit {
		parts = append(parts, fmt.Sprintf("fit fill=%d", p.FillGray))
	}
	if p.Dither != DitherNone {
		parts = append(parts, fmt.Sprintf("dither=%s", p.Dither))
	}
	if p.Invert {
		parts = append(parts, "invert")
	}
	return strings.Join(parts, " ")
}
