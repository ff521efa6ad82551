package quality

import (
	"errors"
	gomath "math"
	"strings"
	"testing"

	"github.com/printlab/dotforge/pkg/math"
	"github.com/printlab/dotforge/pkg/mesh"
	"github.com/printlab/dotforge/pkg/pattern"
)

func buildMesh(t *testing.T, params mesh.Params, rows ...string) *mesh.Mesh {
	t.Helper()
	w := len(rows[0])
	cells := make([]bool, 0, w*len(rows))
	for _, r := range rows {
		for _, c := range r {
			cells = append(cells, c == 'x')
		}
	}
	p, err := pattern.New(w, len(rows), cells, pattern.Meta{})
	if err != nil {
		t.Fatalf("pattern.New() error = %v", err)
	}
	m, err := mesh.Generate(p, params)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return m
}

func cubeParams() mesh.Params {
	return mesh.Params{CubeSize: 2, CubeHeight: 2, MergeAdjacentFaces: true}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestAssess_SingleCube(t *testing.T) {
	m := buildMesh(t, cubeParams(), "x")

	r, err := Assess(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	g := r.Geometry
	if g.ManifoldScore != 100 {
		t.Errorf("ManifoldScore = %v, want 100", g.ManifoldScore)
	}
	if g.TotalEdges != 18 || g.ManifoldEdges != 18 {
		t.Errorf("edges = %d/%d, want 18/18", g.ManifoldEdges, g.TotalEdges)
	}
	if g.DuplicateVertices != 0 {
		t.Errorf("DuplicateVertices = %d, want 0", g.DuplicateVertices)
	}
	if !g.SelfIntersections.Evaluated || g.SelfIntersections.Count != 0 {
		t.Errorf("SelfIntersections = %+v, want evaluated with 0 hits", g.SelfIntersections)
	}
	if g.Score != 100 {
		t.Errorf("Geometry.Score = %d, want 100", g.Score)
	}
	if len(r.Printability.Overhangs) != 0 {
		t.Errorf("Overhangs = %d, want 0", len(r.Printability.Overhangs))
	}
	if r.Printability.SupportScore != 100 {
		t.Errorf("SupportScore = %d, want 100", r.Printability.SupportScore)
	}
	// A 2-unit cube has a volume-to-surface thickness of 2/3, under
	// the 0.8 default.
	if r.Printability.Wall.Adequate {
		t.Error("Wall.Adequate = true, want false")
	}
	if !r.Printability.Wall.Approximate {
		t.Error("Wall.Approximate = false, want true")
	}
	if r.OverallScore != 97 {
		t.Errorf("OverallScore = %d, want 97", r.OverallScore)
	}
	if !containsSubstring(r.Recommendations, "wall thickness") {
		t.Errorf("Recommendations = %v, want a wall thickness entry", r.Recommendations)
	}
}

func TestAssess_PrintReady(t *testing.T) {
	params := cubeParams()
	params.OptimizeMesh = true
	m := buildMesh(t, params, "xxx")

	r, err := Assess(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if r.Geometry.Score != 100 {
		t.Errorf("Geometry.Score = %d, want 100", r.Geometry.Score)
	}
	if !r.Printability.Wall.Adequate {
		t.Errorf("Wall = %+v, want adequate", r.Printability.Wall)
	}
	if r.OverallScore != 100 {
		t.Errorf("OverallScore = %d, want 100", r.OverallScore)
	}
	if !containsSubstring(r.Recommendations, "ready to print") {
		t.Errorf("Recommendations = %v, want ready to print", r.Recommendations)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", r.Warnings)
	}
}

func TestAssess_DuplicateVertices(t *testing.T) {
	// Touching cubes without merging leave two vertices at each of the
	// four shared wall corners.
	params := mesh.Params{CubeSize: 2, CubeHeight: 2}
	m := buildMesh(t, params, "xx")

	r, err := Assess(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if r.Geometry.DuplicateVertices != 4 {
		t.Errorf("DuplicateVertices = %d, want 4", r.Geometry.DuplicateVertices)
	}
	if r.Geometry.ManifoldScore != 100 {
		t.Errorf("ManifoldScore = %v, want 100 (each cube is closed)", r.Geometry.ManifoldScore)
	}
	if r.Geometry.Score != 92 {
		t.Errorf("Geometry.Score = %d, want 92", r.Geometry.Score)
	}
	if !containsSubstring(r.Recommendations, "weld 4") {
		t.Errorf("Recommendations = %v, want weld advice", r.Recommendations)
	}
}

func TestAssess_SeamsAfterOptimize(t *testing.T) {
	// Merging an L-shaped block leaves rectangle edges that meet
	// smaller neighbors mid-edge, so some edges are used once.
	params := cubeParams()
	params.OptimizeMesh = true
	m := buildMesh(t, params, "xx", "x.")

	r, err := Assess(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if r.Geometry.ManifoldScore >= 100 {
		t.Errorf("ManifoldScore = %v, want below 100", r.Geometry.ManifoldScore)
	}
	if !containsSubstring(r.Recommendations, "non-manifold") {
		t.Errorf("Recommendations = %v, want non-manifold repair advice", r.Recommendations)
	}
}

func tiltedMesh(angleDeg float64) *mesh.Mesh {
	rad := angleDeg * gomath.Pi / 180
	n := math.Vec3{X: gomath.Sin(rad), Y: -gomath.Cos(rad)}
	return normalMesh(n)
}

func normalMesh(n math.Vec3) *mesh.Mesh {
	d1 := math.Vec3{Z: 1}
	if gomath.Abs(n.Z) > 0.9 {
		d1 = math.Vec3{X: 1}
	}
	d2 := n.Cross(d1)
	return &mesh.Mesh{
		Vertices: []math.Vec3{{}, d1, d2},
		Faces:    [][3]int{{0, 1, 2}},
		Normals:  []math.Vec3{n},
	}
}

func TestFindOverhangs(t *testing.T) {
	tests := []struct {
		name     string
		m        *mesh.Mesh
		flagged  bool
		severity Severity
	}{
		{name: "upward face", m: normalMesh(math.Vec3{Y: 1}), flagged: false},
		{name: "flat bottom", m: normalMesh(math.Vec3{Y: -1}), flagged: false},
		{name: "vertical wall", m: normalMesh(math.Vec3{X: 1}), flagged: false},
		{name: "44 degrees", m: tiltedMesh(44), flagged: false},
		{name: "46 degrees", m: tiltedMesh(46), flagged: true, severity: SeverityLow},
		{name: "50 degrees", m: tiltedMesh(50), flagged: true, severity: SeverityLow},
		{name: "55 degrees", m: tiltedMesh(55), flagged: true, severity: SeverityMedium},
		{name: "60 degrees", m: tiltedMesh(60), flagged: true, severity: SeverityMedium},
		{name: "75 degrees", m: tiltedMesh(75), flagged: true, severity: SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overhangs, areaPct := findOverhangs(tt.m, 45)
			if got := len(overhangs) > 0; got != tt.flagged {
				t.Fatalf("flagged = %v, want %v", got, tt.flagged)
			}
			if !tt.flagged {
				if areaPct != 0 {
					t.Errorf("area percentage = %v, want 0", areaPct)
				}
				return
			}
			o := overhangs[0]
			if o.Severity != tt.severity {
				t.Errorf("Severity = %q (angle %.2f), want %q", o.Severity, o.AngleDeg, tt.severity)
			}
			if o.Suggestion == "" {
				t.Error("Suggestion is empty")
			}
			if areaPct != 100 {
				t.Errorf("area percentage = %v, want 100 for a single flagged face", areaPct)
			}
		})
	}
}

func TestFindOverhangs_ThresholdRespected(t *testing.T) {
	m := tiltedMesh(80)
	if overhangs, _ := findOverhangs(m, 45); len(overhangs) != 1 {
		t.Fatalf("flagged %d faces at threshold 45, want 1", len(overhangs))
	}
	if overhangs, _ := findOverhangs(m, 85); len(overhangs) != 0 {
		t.Fatalf("flagged %d faces at threshold 85, want 0", len(overhangs))
	}
}

func TestAssess_CubeHasNoOverhangsAtLowThreshold(t *testing.T) {
	m := buildMesh(t, cubeParams(), "x")
	cfg := DefaultConfig()
	cfg.MaxOverhangAngleDeg = 30

	r, err := Assess(m, cfg)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	// Walls face sideways and the bottom faces straight down; neither
	// is a downward-facing candidate past the angle threshold.
	if len(r.Printability.Overhangs) != 0 {
		t.Errorf("Overhangs = %d, want 0", len(r.Printability.Overhangs))
	}
}

func TestAssess_Invalid(t *testing.T) {
	badIndex := normalMesh(math.Vec3{Y: 1})
	badIndex.Faces[0][1] = 9

	mismatch := normalMesh(math.Vec3{Y: 1})
	mismatch.Normals = nil

	tests := []struct {
		name string
		m    *mesh.Mesh
	}{
		{"nil mesh", nil},
		{"empty mesh", &mesh.Mesh{}},
		{"face index out of range", badIndex},
		{"missing normals", mismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assess(tt.m, DefaultConfig())
			var assessErr *AssessmentError
			if !errors.As(err, &assessErr) {
				t.Fatalf("Assess() error = %v, want *AssessmentError", err)
			}
		})
	}
}

func TestAssess_ZeroConfigUsesDefaults(t *testing.T) {
	m := buildMesh(t, cubeParams(), "x")

	withDefaults, err := Assess(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	withZero, err := Assess(m, Config{})
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if withZero.OverallScore != withDefaults.OverallScore {
		t.Errorf("OverallScore with zero config = %d, want %d", withZero.OverallScore, withDefaults.OverallScore)
	}
}
