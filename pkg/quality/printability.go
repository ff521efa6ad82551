package quality

import (
	gomath "math"

	"github.com/printlab/dotforge/pkg/mesh"
)

// findOverhangs flags downward-facing faces (normal Y below zero) whose
// angle from vertical, acos(|N.Y|) in degrees, exceeds maxAngleDeg.
// It returns the flagged faces and the share of total surface area they
// cover as a percentage. Upward faces and exactly vertical walls are
// never candidates.
func findOverhangs(m *mesh.Mesh, maxAngleDeg float64) ([]Overhang, float64) {
	var overhangs []Overhang
	var totalArea, flaggedArea float64
	for i, f := range m.Faces {
		area := triArea(m, f)
		totalArea += area
		n := m.Normals[i]
		if n.Y >= 0 {
			continue
		}
		dot := gomath.Abs(n.Y)
		if dot > 1 {
			dot = 1
		}
		angle := gomath.Acos(dot) * 180 / gomath.Pi
		if angle <= maxAngleDeg {
			continue
		}
		flaggedArea += area
		sev := overhangSeverity(angle)
		overhangs = append(overhangs, Overhang{
			Face:       i,
			AngleDeg:   angle,
			Severity:   sev,
			Suggestion: overhangSuggestion(sev),
		})
	}
	if totalArea <= 0 {
		return overhangs, 0
	}
	return overhangs, flaggedArea / totalArea * 100
}

func overhangSeverity(angleDeg float64) Severity {
	switch {
	case angleDeg > 60:
		return SeverityHigh
	case angleDeg > 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func overhangSuggestion(s Severity) string {
	switch s {
	case SeverityHigh:
		return "add support material or reorient the model"
	case SeverityMedium:
		return "enable support material for this region"
	default:
		return "prints on most machines; supports optional"
	}
}

// estimateWall derives a conservative wall-thickness figure from the
// volume-to-surface ratio (a slab of thickness t has 2V/A close to t)
// capped by the smallest nonzero bounding-box extent. It is a
// heuristic, not an offset-surface measurement, and the report says so.
func estimateWall(m *mesh.Mesh, minWall float64) WallReport {
	st := m.Stats()
	est := 0.0
	if st.SurfaceArea > 0 {
		est = 2 * st.Volume / st.SurfaceArea
	}
	size := st.Bounds.Size()
	for _, extent := range []float64{size.X, size.Y, size.Z} {
		if extent > 0 && (est == 0 || extent < est) {
			est = extent
		}
	}

	rep := WallReport{
		Estimated:   est,
		Minimum:     minWall,
		Adequate:    est >= minWall,
		Approximate: true,
	}
	switch {
	case rep.Adequate:
		rep.Score = 100
	case minWall > 0:
		rep.Score = clampScore(est / minWall * 100)
	}
	return rep
}

func triArea(m *mesh.Mesh, f [3]int) float64 {
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}
