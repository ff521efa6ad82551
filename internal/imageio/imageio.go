// Package imageio loads raster images for pattern conversion and
// renders pattern previews. PNG, JPEG, GIF, BMP and TIFF inputs are
// recognized.
package imageio

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/printlab/dotforge/pkg/pattern"
	"github.com/printlab/dotforge/pkg/raster"
)

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &raster.ImageError{Op: "load", Msg: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &raster.ImageError{Op: "decode", Msg: path, Err: err}
	}
	return img, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PatternImage renders the pattern as a preview, scale pixels per
// cell, active cells black on a white background.
func PatternImage(p *pattern.Pattern, scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	img := image.NewGray(image.Rect(0, 0, p.Width()*scale, p.Height()*scale))
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			c := color.Gray{Y: 255}
			if p.At(x, y) {
				c = color.Gray{Y: 0}
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}
