package quality

import (
	"reflect"
	"testing"
)

func TestCompare(t *testing.T) {
	reports := []*Report{
		{OverallScore: 50},
		{OverallScore: 90},
		nil,
		{OverallScore: 70},
	}
	got := Compare(reports)
	want := []Ranking{
		{Index: 1, Score: 90},
		{Index: 3, Score: 70},
		{Index: 0, Score: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compare() = %v, want %v", got, want)
	}
}

func TestCompare_TiesKeepInputOrder(t *testing.T) {
	got := Compare([]*Report{{OverallScore: 80}, {OverallScore: 80}})
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("Compare() = %v, want input order preserved on ties", got)
	}
}

func TestOptimizationPlan(t *testing.T) {
	r := &Report{
		Geometry: GeometryReport{
			TotalEdges:        18,
			ManifoldEdges:     16,
			DuplicateVertices: 3,
			SelfIntersections: SelfIntersectionReport{Evaluated: true, Count: 2},
		},
		Printability: PrintabilityReport{
			Overhangs: []Overhang{{Face: 0, AngleDeg: 70, Severity: SeverityHigh}},
			Wall:      WallReport{Estimated: 0.5, Minimum: 0.8, Approximate: true},
		},
	}
	steps := OptimizationPlan(r)
	wantActions := []string{
		"repair non-manifold edges",
		"separate intersecting geometry",
		"weld duplicate vertices",
		"reduce overhangs",
		"thicken walls",
	}
	if len(steps) != len(wantActions) {
		t.Fatalf("OptimizationPlan() produced %d steps, want %d", len(steps), len(wantActions))
	}
	for i, want := range wantActions {
		if steps[i].Action != want {
			t.Errorf("step %d = %q, want %q", i, steps[i].Action, want)
		}
		if steps[i].Reason == "" {
			t.Errorf("step %d has no reason", i)
		}
	}
}

func TestOptimizationPlan_Clean(t *testing.T) {
	r := &Report{
		OverallScore: 100,
		Geometry: GeometryReport{
			TotalEdges:        18,
			ManifoldEdges:     18,
			SelfIntersections: SelfIntersectionReport{Evaluated: true},
		},
		Printability: PrintabilityReport{
			Wall: WallReport{Estimated: 1, Minimum: 0.8, Adequate: true, Approximate: true},
		},
	}
	if steps := OptimizationPlan(r); len(steps) != 0 {
		t.Errorf("OptimizationPlan() = %v, want none for a clean report", steps)
	}
	if steps := OptimizationPlan(nil); steps != nil {
		t.Errorf("OptimizationPlan(nil) = %v, want nil", steps)
	}
}
