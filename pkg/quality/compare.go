package quality

import (
	"fmt"
	"sort"
)

// Ranking places one report in a best-to-worst ordering.
type Ranking struct {
	Index int
	Score int
}

// Compare orders the given reports from best to worst overall score.
// Nil entries are skipped and ties keep their input order.
func Compare(reports []*Report) []Ranking {
	out := make([]Ranking, 0, len(reports))
	for i, r := range reports {
		if r == nil {
			continue
		}
		out = append(out, Ranking{Index: i, Score: r.OverallScore})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

// PlanStep is one remediation in an optimization plan.
type PlanStep struct {
	Action string
	Reason string
}

// OptimizationPlan derives an ordered remediation plan from an existing
// report without re-running any analysis. Geometry repairs come first
// because slicers reject broken topology outright.
func OptimizationPlan(r *Report) []PlanStep {
	if r == nil {
		return nil
	}
	var steps []PlanStep
	g := r.Geometry
	if g.ManifoldEdges < g.TotalEdges {
		steps = append(steps, PlanStep{
			Action: "repair non-manifold edges",
			Reason: fmt.Sprintf("%d edges are not shared by exactly two faces", g.TotalEdges-g.ManifoldEdges),
		})
	}
	if g.SelfIntersections.Evaluated && g.SelfIntersections.Count > 0 {
		steps = append(steps, PlanStep{
			Action: "separate intersecting geometry",
			Reason: fmt.Sprintf("%d face pairs cross each other", g.SelfIntersections.Count),
		})
	}
	if g.DuplicateVertices > 0 {
		steps = append(steps, PlanStep{
			Action: "weld duplicate vertices",
			Reason: fmt.Sprintf("%d vertices share a position within tolerance", g.DuplicateVertices),
		})
	}
	if n := len(r.Printability.Overhangs); n > 0 {
		steps = append(steps, PlanStep{
			Action: "reduce overhangs",
			Reason: fmt.Sprintf("%d faces exceed the overhang threshold", n),
		})
	}
	if !r.Printability.Wall.Adequate {
		steps = append(steps, PlanStep{
			Action: "thicken walls",
			Reason: fmt.Sprintf("estimated %.2f against a %.2f minimum", r.Printability.Wall.Estimated, r.Printability.Wall.Minimum),
		})
	}
	return steps
}
