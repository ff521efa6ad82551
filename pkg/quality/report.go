package quality

// Severity grades how badly an overhang needs support material.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Overhang is one downward-facing face steeper than the configured
// threshold.
type Overhang struct {
	Face       int
	AngleDeg   float64
	Severity   Severity
	Suggestion string
}

// SelfIntersectionReport records the outcome of the pairwise face
// intersection scan. Evaluated is false when the mesh exceeded the
// configured face limit and the scan was skipped.
type SelfIntersectionReport struct {
	Evaluated    bool
	Count        int
	CheckedPairs int
}

// WallReport estimates the thinnest wall of the model. The estimate is
// a volume-to-surface heuristic, not a measured offset surface, so
// Approximate is always true.
type WallReport struct {
	Estimated   float64
	Minimum     float64
	Adequate    bool
	Approximate bool
	Score       int
}

// GeometryReport covers mesh soundness: manifold edges, duplicate
// vertices and self-intersections.
type GeometryReport struct {
	Score             int
	TotalEdges        int
	ManifoldEdges     int
	ManifoldScore     float64
	WatertightScore   float64
	DuplicateVertices int
	SelfIntersections SelfIntersectionReport
}

// PrintabilityReport covers how well the model will print: support
// need from overhangs and wall thickness adequacy.
type PrintabilityReport struct {
	Score           int
	SupportScore    int
	OverhangAreaPct float64
	Overhangs       []Overhang
	Wall            WallReport
}

// Report is the result of one quality assessment. Assess builds it
// once; it is never mutated afterwards.
type Report struct {
	OverallScore    int
	Geometry        GeometryReport
	Printability    PrintabilityReport
	Recommendations []string
	Warnings        []string
}
