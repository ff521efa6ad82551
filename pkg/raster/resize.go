package raster

import (
	"image"

	"golang.org/x/image/draw"
)

func scalerFor(mode ResampleMode) draw.Scaler {
	switch mode {
	case ResampleNearest:
		return draw.NearestNeighbor
	case ResampleBicubic:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// resizeGray scales src to the target grid size. In fit mode the source
// aspect ratio is preserved: the scaled image is centered and the
// uncovered border is filled with FillGray.
func resizeGray(src *image.Gray, p Params) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, p.TargetWidth, p.TargetHeight))
	sc := scalerFor(p.Resample)
	if p.Aspect == AspectFit {
		for i := range dst.Pix {
			dst.Pix[i] = p.FillGray
		}
		r := fitRect(src.Bounds().Dx(), src.Bounds().Dy(), p.TargetWidth, p.TargetHeight)
		sc.Scale(dst, r, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	sc.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// fitRect returns the largest rectangle with the source aspect ratio
// that fits inside dstW x dstH, centered. Degenerate sources map to the
// full target.
func fitRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rect(0, 0, dstW, dstH)
	}
	w := dstW
	h := w * srcH / srcW
	if h > dstH {
		h = dstH
		w = h * srcW / srcH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
