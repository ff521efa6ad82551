package raster

// ditherTap is one error-diffusion target relative to the current
// pixel. Taps only point at pixels the scan has not visited yet.
type ditherTap struct {
	dx, dy int
	weight float64
}

var (
	floydSteinbergTaps = []ditherTap{
		{1, 0, 7.0 / 16}, {-1, 1, 3.0 / 16}, {0, 1, 5.0 / 16}, {1, 1, 1.0 / 16},
	}
	// Atkinson deliberately diffuses only 6/8 of the error.
	atkinsonTaps = []ditherTap{
		{1, 0, 1.0 / 8}, {2, 0, 1.0 / 8},
		{-1, 1, 1.0 / 8}, {0, 1, 1.0 / 8}, {1, 1, 1.0 / 8},
		{0, 2, 1.0 / 8},
	}
	sierraTaps = []ditherTap{
		{1, 0, 5.0 / 32}, {2, 0, 3.0 / 32},
		{-2, 1, 2.0 / 32}, {-1, 1, 4.0 / 32}, {0, 1, 5.0 / 32}, {1, 1, 4.0 / 32}, {2, 1, 2.0 / 32},
		{-1, 2, 2.0 / 32}, {0, 2, 3.0 / 32}, {1, 2, 2.0 / 32},
	}
)

// applyDither quantizes vals to 0/255 at the given threshold in raster
// order, diffusing each pixel's quantization error to its unvisited
// neighbors. DitherNone leaves vals untouched.
func applyDither(vals []float64, w, h int, mode DitherMode, threshold float64) {
	var taps []ditherTap
	switch mode {
	case DitherFloydSteinberg:
		taps = floydSteinbergTaps
	case DitherAtkinson:
		taps = atkinsonTaps
	case DitherSierra:
		taps = sierraTaps
	default:
		return
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := vals[i]
			var q float64
			if old >= threshold {
				q = 255
			}
			vals[i] = q
			e := old - q
			if e == 0 {
				continue
			}
			for _, t := range taps {
				nx, ny := x+t.dx, y+t.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				vals[ny*w+nx] += e * t.weight
			}
		}
	}
}
