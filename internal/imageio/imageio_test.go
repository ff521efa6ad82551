package imageio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/printlab/dotforge/pkg/pattern"
	"github.com/printlab/dotforge/pkg/raster"
)

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradient.png")

	src := image.NewGray(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		src.SetGray(x, 0, color.Gray{Y: uint8(x * 60)})
		src.SetGray(x, 1, color.Gray{Y: 255})
	}
	if err := SavePNG(path, src); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := img.Bounds(); got.Dx() != 4 || got.Dy() != 2 {
		t.Errorf("Bounds() = %v, want 4x2", got)
	}
	r, g, b, _ := img.At(1, 0).RGBA()
	if r>>8 != 60 || g>>8 != 60 || b>>8 != 60 {
		t.Errorf("pixel (1,0) = %d/%d/%d, want 60/60/60", r>>8, g>>8, b>>8)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	var imgErr *raster.ImageError
	if !errors.As(err, &imgErr) {
		t.Fatalf("Load() error = %v, want *raster.ImageError", err)
	}
}

func TestLoad_Undecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(path)
	var imgErr *raster.ImageError
	if !errors.As(err, &imgErr) {
		t.Fatalf("Load() error = %v, want *raster.ImageError", err)
	}
	if imgErr.Op != "decode" {
		t.Errorf("Op = %q, want decode", imgErr.Op)
	}
}

func TestPatternImage(t *testing.T) {
	p, err := pattern.New(2, 1, []bool{true, false}, pattern.Meta{})
	if err != nil {
		t.Fatalf("pattern.New() error = %v", err)
	}

	img := PatternImage(p, 2)
	if got := img.Bounds(); got.Dx() != 4 || got.Dy() != 2 {
		t.Fatalf("Bounds() = %v, want 4x2", got)
	}
	// Active cell renders black, inactive white, scaled 2x2.
	if img.GrayAt(0, 0).Y != 0 || img.GrayAt(1, 1).Y != 0 {
		t.Error("active cell pixels are not black")
	}
	if img.GrayAt(2, 0).Y != 255 || img.GrayAt(3, 1).Y != 255 {
		t.Error("inactive cell pixels are not white")
	}
}

func TestPatternImage_MinScale(t *testing.T) {
	p, err := pattern.New(1, 1, []bool{true}, pattern.Meta{})
	if err != nil {
		t.Fatalf("pattern.New() error = %v", err)
	}
	img := PatternImage(p, 0)
	if got := img.Bounds(); got.Dx() != 1 || got.Dy() != 1 {
		t.Errorf("Bounds() = %v, want 1x1 at minimum scale", got)
	}
}
