package quality

import (
	"fmt"
	gomath "math"
)

// scoreGeometry combines manifoldness, watertightness, the
// self-intersection factor and a duplicate-vertex penalty into the
// geometry sub-score. An unevaluated intersection scan scores neutral.
func scoreGeometry(manifoldEdges, totalEdges, duplicates int, selfX SelfIntersectionReport) GeometryReport {
	g := GeometryReport{
		TotalEdges:        totalEdges,
		ManifoldEdges:     manifoldEdges,
		DuplicateVertices: duplicates,
		SelfIntersections: selfX,
	}
	if totalEdges > 0 {
		g.ManifoldScore = float64(manifoldEdges) / float64(totalEdges) * 100
	}
	g.WatertightScore = g.ManifoldScore

	selfFactor := 100.0
	if selfX.Evaluated {
		selfFactor = 100 - 10*float64(selfX.Count)
		if selfFactor < 0 {
			selfFactor = 0
		}
	}
	penalty := 2 * float64(duplicates)
	if penalty > 20 {
		penalty = 20
	}
	g.Score = clampScore(0.4*g.ManifoldScore + 0.3*g.WatertightScore + 0.3*selfFactor - penalty)
	return g
}

// scorePrintability combines support need and wall adequacy.
func scorePrintability(overhangs []Overhang, areaPct float64, wall WallReport) PrintabilityReport {
	p := PrintabilityReport{
		OverhangAreaPct: areaPct,
		Overhangs:       overhangs,
		Wall:            wall,
	}
	p.SupportScore = clampScore(100 - areaPct)
	p.Score = clampScore(0.5*float64(p.SupportScore) + 0.5*float64(wall.Score))
	return p
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(gomath.Round(v))
}

// recommendations turns the computed metrics into ordered, actionable
// advice. No metric is recomputed here.
func recommendations(r *Report, cfg Config) []string {
	var recs []string
	g := r.Geometry
	if g.ManifoldEdges < g.TotalEdges {
		recs = append(recs, fmt.Sprintf(
			"repair non-manifold geometry: %d of %d edges are not shared by exactly two faces",
			g.TotalEdges-g.ManifoldEdges, g.TotalEdges))
	}
	if g.DuplicateVertices > 0 {
		recs = append(recs, fmt.Sprintf(
			"weld %d duplicate vertices (tolerance %g)", g.DuplicateVertices, cfg.DuplicateTolerance))
	}
	if g.SelfIntersections.Evaluated && g.SelfIntersections.Count > 0 {
		recs = append(recs, fmt.Sprintf(
			"resolve %d self-intersecting face pairs", g.SelfIntersections.Count))
	}
	switch {
	case countSeverity(r.Printability.Overhangs, SeverityHigh) > 0:
		recs = append(recs, fmt.Sprintf(
			"%d faces overhang steeply; add supports or reorient the model",
			countSeverity(r.Printability.Overhangs, SeverityHigh)))
	case countSeverity(r.Printability.Overhangs, SeverityMedium) > 0:
		recs = append(recs, fmt.Sprintf(
			"%d faces need support material",
			countSeverity(r.Printability.Overhangs, SeverityMedium)))
	case len(r.Printability.Overhangs) > 0:
		recs = append(recs, "minor overhangs detected; supports are optional")
	}
	if !r.Printability.Wall.Adequate {
		recs = append(recs, fmt.Sprintf(
			"estimated wall thickness %.2f is below the %.2f minimum; increase cube size or base thickness",
			r.Printability.Wall.Estimated, r.Printability.Wall.Minimum))
	}
	if len(recs) == 0 && r.OverallScore >= 90 {
		recs = append(recs, "mesh is ready to print")
	}
	return recs
}

func countSeverity(os []Overhang, s Severity) int {
	n := 0
	for _, o := range os {
		if o.Severity == s {
			n++
		}
	}
	return n
}

// warnings lists conditions that make the score itself less reliable.
func warnings(r *Report, cfg Config) []string {
	var warns []string
	if !r.Geometry.SelfIntersections.Evaluated {
		warns = append(warns, fmt.Sprintf(
			"self-intersection check skipped: face count exceeds the %d limit",
			cfg.SelfIntersectionFaceLimit))
	}
	if r.Geometry.ManifoldScore < 50 {
		warns = append(warns, "mesh is badly non-manifold; slicers may reject it")
	}
	if !r.Printability.Wall.Adequate {
		warns = append(warns, "wall thickness estimate is approximate; verify thin regions before printing")
	}
	return warns
}
