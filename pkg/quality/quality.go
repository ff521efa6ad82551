// Package quality scores meshes for 3D-print readiness. It checks edge
// manifoldness, duplicate vertices, self-intersections, overhangs and
// wall thickness, and combines them into a single 0..100 score with
// rule-based recommendations and warnings.
package quality

import (
	"fmt"
	gomath "math"

	"github.com/printlab/dotforge/pkg/mesh"
)

// Config bounds the analyzer. Zero-valued fields fall back to their
// defaults, so a partially filled Config is usable.
type Config struct {
	// MaxOverhangAngleDeg flags downward-facing faces whose angle from
	// vertical exceeds this many degrees.
	MaxOverhangAngleDeg float64 `yaml:"max_overhang_angle_deg"`
	// DuplicateTolerance is the grid size for duplicate-vertex
	// detection, in model units.
	DuplicateTolerance float64 `yaml:"duplicate_tolerance"`
	// SelfIntersectionFaceLimit skips the pairwise intersection scan
	// on meshes with more faces than this.
	SelfIntersectionFaceLimit int `yaml:"self_intersection_face_limit"`
	// MinWallThickness is the thinnest printable wall in model units.
	MinWallThickness float64 `yaml:"min_wall_thickness"`
}

// DefaultConfig returns the analyzer defaults: 45 degree overhangs,
// 1e-4 duplicate tolerance, 20000 face intersection limit and 0.8 unit
// minimum walls.
func DefaultConfig() Config {
	return Config{
		MaxOverhangAngleDeg:       45,
		DuplicateTolerance:        1e-4,
		SelfIntersectionFaceLimit: 20000,
		MinWallThickness:          0.8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxOverhangAngleDeg <= 0 {
		c.MaxOverhangAngleDeg = d.MaxOverhangAngleDeg
	}
	if c.DuplicateTolerance <= 0 {
		c.DuplicateTolerance = d.DuplicateTolerance
	}
	if c.SelfIntersectionFaceLimit <= 0 {
		c.SelfIntersectionFaceLimit = d.SelfIntersectionFaceLimit
	}
	if c.MinWallThickness <= 0 {
		c.MinWallThickness = d.MinWallThickness
	}
	return c
}

// AssessmentError reports a mesh the analyzer cannot score.
type AssessmentError struct {
	Msg string
}

func (e *AssessmentError) Error() string {
	return fmt.Sprintf("assess quality: %s", e.Msg)
}

// Assess inspects the mesh and produces a fresh quality report. It
// returns an AssessmentError for empty or malformed meshes and never
// modifies the mesh.
func Assess(m *mesh.Mesh, cfg Config) (*Report, error) {
	if err := validateMesh(m); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	manifoldEdges, totalEdges := edgeManifoldness(m)
	dups := duplicateVertexCount(m, cfg.DuplicateTolerance)
	selfX := findSelfIntersections(m, cfg.SelfIntersectionFaceLimit)
	geometry := scoreGeometry(manifoldEdges, totalEdges, dups, selfX)

	overhangs, areaPct := findOverhangs(m, cfg.MaxOverhangAngleDeg)
	wall := estimateWall(m, cfg.MinWallThickness)
	printability := scorePrintability(overhangs, areaPct, wall)

	r := &Report{
		Geometry:     geometry,
		Printability: printability,
	}
	r.OverallScore = clampScore(gomath.Round(0.6*float64(geometry.Score) + 0.4*float64(printability.Score)))
	r.Recommendations = recommendations(r, cfg)
	r.Warnings = warnings(r, cfg)
	return r, nil
}

func validateMesh(m *mesh.Mesh) error {
	if m.IsEmpty() {
		return &AssessmentError{Msg: "empty mesh"}
	}
	if len(m.Normals) != len(m.Faces) {
		return &AssessmentError{Msg: fmt.Sprintf("%d normals for %d faces", len(m.Normals), len(m.Faces))}
	}
	for i, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(m.Vertices) {
				return &AssessmentError{
					Msg: fmt.Sprintf("face %d references vertex %d, mesh has %d", i, vi, len(m.Vertices)),
				}
			}
		}
	}
	return nil
}
