package mesh

import (
	"fmt"

	"go.uber.org/multierr"
)

// Params controls mesh generation. Dimensions are in model units
// (millimeters by convention).
type Params struct {
	// CubeSize is the X/Z footprint of one active cell.
	CubeSize float64 `yaml:"cube_size"`
	// CubeHeight is the Y extent of one active cell.
	CubeHeight float64 `yaml:"cube_height"`
	// Spacing is the gap between neighboring cells. Zero makes
	// adjacent cubes share faces.
	Spacing float64 `yaml:"spacing"`
	// GenerateBase adds a plinth under the full grid extent.
	GenerateBase  bool    `yaml:"generate_base"`
	BaseThickness float64 `yaml:"base_thickness"`
	// MergeAdjacentFaces removes the hidden interior walls between
	// touching cubes.
	MergeAdjacentFaces bool `yaml:"merge_adjacent_faces"`
	// OptimizeMesh merges coplanar boundary faces into larger
	// rectangles after generation.
	OptimizeMesh bool `yaml:"optimize_mesh"`
	// ChamferEdges bevels every cube edge by ChamferSize.
	ChamferEdges bool    `yaml:"chamfer_edges"`
	ChamferSize  float64 `yaml:"chamfer_size"`
}

// DefaultParams returns the generation defaults: 2 mm cubes, no
// spacing, a 1 mm plinth, hidden interior walls removed.
func DefaultParams() Params {
	return Params{
		CubeSize:           2,
		CubeHeight:         2,
		Spacing:            0,
		GenerateBase:       true,
		BaseThickness:      1,
		MergeAdjacentFaces: true,
		ChamferSize:        0.3,
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
	if p.CubeSize <= 0 {
		vs = append(vs, Violation{"cube_size", fmt.Sprintf("%g must be positive", p.CubeSize)})
	}
	if p.CubeHeight <= 0 {
		vs = append(vs, Violation{"cube_height", fmt.Sprintf("%g must be positive", p.CubeHeight)})
	}
	if p.Spacing < 0 {
		vs = append(vs, Violation{"spacing", fmt.Sprintf("%g must not be negative", p.Spacing)})
	}
	if p.GenerateBase && p.BaseThickness <= 0 {
		vs = append(vs, Violation{"base_thickness", fmt.Sprintf("%g must be positive when a base is generated", p.BaseThickness)})
	}
	if p.ChamferEdges {
		if p.ChamferSize <= 0 {
			vs = append(vs, Violation{"chamfer_size", fmt.Sprintf("%g must be positive when chamfering", p.ChamferSize)})
		} else if limit := min(p.CubeSize, p.CubeHeight) / 2; p.ChamferSize >= limit && limit > 0 {
			vs = append(vs, Violation{"chamfer_size", fmt.Sprintf("%g must be below half the smallest cube dimension (%g)", p.ChamferSize, limit)})
		}
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
