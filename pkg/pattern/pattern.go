// Package pattern defines the 2D dot grid that drives mesh generation
// and its CSV interchange format.
package pattern

import (
	"errors"
	"fmt"
)

// MaxDimension is the largest accepted width or height for a pattern.
const MaxDimension = 1000

// Source identifies how a pattern was produced.
type Source string

const (
	SourceCSV    Source = "csv"
	SourceImage  Source = "image"
	SourceManual Source = "manual"
)

// Meta records the provenance of a pattern.
type Meta struct {
	Source Source
	// Conversion is a human-readable summary of the image conversion
	// parameters. Empty for patterns that did not come from an image.
	Conversion string
}

// ErrBadDimensions reports a grid whose size is unusable.
var ErrBadDimensions = errors.New("invalid pattern dimensions")

// Pattern is a rectangular boolean grid. Active cells become solid
// geometry downstream. The zero value is unusable; construct patterns
// with New or ParseCSV.
type Pattern struct {
	width  int
	height int
	cells  []bool // row-major, y*width+x
	meta   Meta
}

// New builds a pattern from a row-major cell slice. The slice is
// copied, so the caller may reuse it.
func New(width, height int, cells []bool, meta Meta) (*Pattern, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds maximum %d", ErrBadDimensions, width, height, MaxDimension)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrBadDimensions, len(cells), width, height)
	}
	c := make([]bool, len(cells))
	copy(c, cells)
	return &Pattern{width: width, height: height, cells: c, meta: meta}, nil
}

// Width returns the number of columns.
func (p *Pattern) Width() int { return p.width }

// Height returns the number of rows.
func (p *Pattern) Height() int { return p.height }

// Meta returns the pattern provenance.
func (p *Pattern) Meta() Meta { return p.meta }

// At reports whether the cell at (x, y) is active. Coordinates outside
// the grid are inactive.
func (p *Pattern) At(x, y int) bool {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return false
	}
	return p.cells[y*p.width+x]
}

// Count returns the number of active cells.
func (p *Pattern) Count() int {
	n := 0
	for _, c := range p.cells {
		if c {
			n++
		}
	}
	return n
}

// Cells returns a copy of the row-major cell grid.
func (p *Pattern) Cells() []bool {
	c := make([]bool, len(p.cells))
	copy(c, p.cells)
	return c
}

// HasAdjacentPair reports whether any two active cells share an edge.
// Diagonal neighbors do not count.
func (p *Pattern) HasAdjacentPair() bool {
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			if !p.cells[y*p.width+x] {
				continue
			}
			if x+1 < p.width && p.cells[y*p.width+x+1] {
				return true
			}
			if y+1 < p.height && p.cells[(y+1)*p.width+x] {
				return true
			}
		}
	}
	return false
}
