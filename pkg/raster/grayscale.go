package raster

import (
	"image"
	"math"
)

// toGray flattens img to 8-bit grayscale. Alpha is ignored; callers
// feeding premultiplied transparent pixels get them as dark values.
func toGray(img image.Image, mode GrayscaleMode) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			rf := float64(r >> 8)
			gf := float64(g >> 8)
			bf := float64(bl >> 8)
			var v float64
			switch mode {
			case GrayAverage:
				v = (rf + gf + bf) / 3
			case GrayDesaturate:
				v = (math.Max(rf, math.Max(gf, bf)) + math.Min(rf, math.Min(gf, bf))) / 2
			default:
				v = 0.299*rf + 0.587*gf + 0.114*bf
			}
			dst.Pix[y*dst.Stride+x] = clampByte(v)
		}
	}
	return dst
}

// 3x3 convolution weights. Divisors are the weight sums so the filters
// preserve overall brightness.
var (
	boxWeights   = [9]float64{1, 1, 1, 1, 1, 1, 1, 1, 1}
	gaussWeights = [9]float64{1, 2, 1, 2, 4, 2, 1, 2, 1}
)

// applyBlur smooths the image with a 3x3 kernel. Edge pixels clamp
// sample coordinates to the image border.
func applyBlur(src *image.Gray, mode BlurMode) *image.Gray {
	var weights [9]float64
	var div float64
	switch mode {
	case BlurBox:
		weights, div = boxWeights, 9
	case BlurGaussian:
		weights, div = gaussWeights, 16
	default:
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx := clampInt(x+kx, 0, w-1)
					sy := clampInt(y+ky, 0, h-1)
					sum += weights[(ky+1)*3+kx+1] * float64(src.Pix[sy*src.Stride+sx])
				}
			}
			dst.Pix[y*dst.Stride+x] = clampByte(sum / div)
		}
	}
	return dst
}

// stretchContrast remaps gray levels so the darkest pixel becomes 0 and
// the brightest 255. Uniform images are left unchanged.
func stretchContrast(g *image.Gray) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	lo, hi := uint8(255), uint8(0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.Pix[y*g.Stride+x]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return
	}
	scale := 255.0 / float64(hi-lo)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*g.Stride + x
			g.Pix[i] = clampByte(float64(g.Pix[i]-lo) * scale)
		}
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
