package mesh

import (
	"context"
	"fmt"

	"github.com/printlab/dotforge/pkg/math"
	"github.com/printlab/dotforge/pkg/pattern"
)

// GenerationError reports that a mesh could not be generated.
type GenerationError struct {
	Msg string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate mesh: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("generate mesh: %s", e.Msg)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generate builds a mesh from a pattern. Each active cell becomes a
// cuboid; an optional plinth spans the full grid extent. A pattern with
// no active cells and no base yields an empty mesh, not an error.
func Generate(p *pattern.Pattern, params Params) (*Mesh, error) {
	return GenerateContext(context.Background(), p, params, nil)
}

// GenerateContext is Generate with cancellation and progress reporting.
// The context is checked between pattern rows, so cancellation is
// coarse. onProgress, when non-nil, receives non-decreasing
// percentages ending at 100.
func GenerateContext(ctx context.Context, p *pattern.Pattern, params Params, onProgress func(pct int)) (*Mesh, error) {
	if p == nil {
		return nil, &GenerationError{Msg: "nil pattern"}
	}
	if err := params.Err(); err != nil {
		return nil, &GenerationError{Msg: "invalid parameters", Err: err}
	}

	m := &Mesh{}
	pitch := params.CubeSize + params.Spacing
	for y := 0; y < p.Height(); y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < p.Width(); x++ {
			if !p.At(x, y) {
				continue
			}
			x0 := float64(x) * pitch
			z0 := float64(y) * pitch
			box := math.AABB{
				Min: math.Vec3{X: x0, Y: 0, Z: z0},
				Max: math.Vec3{X: x0 + params.CubeSize, Y: params.CubeHeight, Z: z0 + params.CubeSize},
			}
			if params.ChamferEdges {
				emitChamferedBox(m, box, params.ChamferSize)
			} else {
				emitBox(m, box)
			}
		}
		if onProgress != nil {
			onProgress((y + 1) * 100 / p.Height())
		}
	}

	if params.GenerateBase {
		ex := float64(p.Width()-1)*pitch + params.CubeSize
		ez := float64(p.Height()-1)*pitch + params.CubeSize
		emitBox(m, math.AABB{
			Min: math.Vec3{X: 0, Y: -params.BaseThickness, Z: 0},
			Max: math.Vec3{X: ex, Y: 0, Z: ez},
		})
	}

	if params.MergeAdjacentFaces {
		MergeAdjacentFaces(m, p)
	}
	if params.OptimizeMesh {
		Optimize(m)
	}
	return m, nil
}

// boxCorners returns the eight corners of a box: the Y=Min ring
// counter-clockwise seen from above, then the Y=Max ring in the same
// order.
func boxCorners(b math.AABB) [8]math.Vec3 {
	return [8]math.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// cornerSigns gives each corner's position as 0 (Min) or 1 (Max) per
// axis, matching the boxCorners ordering.
var cornerSigns = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

// boxFaces lists the 12 triangles of a box over the boxCorners
// ordering, wound outward. Opposite faces split their quads along the
// same spatial diagonal, so coincident faces of touching boxes cancel
// triangle for triangle.
var boxFaces = [12]struct {
	idx [3]int
	n   math.Vec3
}{
	{[3]int{0, 1, 2}, math.Vec3{Y: -1}}, // bottom
	{[3]int{0, 2, 3}, math.Vec3{Y: -1}},
	{[3]int{4, 7, 6}, math.Vec3{Y: 1}}, // top
	{[3]int{4, 6, 5}, math.Vec3{Y: 1}},
	{[3]int{0, 4, 5}, math.Vec3{Z: -1}}, // near Z
	{[3]int{0, 5, 1}, math.Vec3{Z: -1}},
	{[3]int{3, 6, 7}, math.Vec3{Z: 1}}, // far Z
	{[3]int{3, 2, 6}, math.Vec3{Z: 1}},
	{[3]int{0, 3, 7}, math.Vec3{X: -1}}, // near X
	{[3]int{0, 7, 4}, math.Vec3{X: -1}},
	{[3]int{1, 6, 2}, math.Vec3{X: 1}}, // far X
	{[3]int{1, 5, 6}, math.Vec3{X: 1}},
}

// boxQuads lists the 6 faces as corner rings (a,b,c,d) that
// triangulate to (a,b,c),(a,c,d) with the boxFaces windings. Used for
// the inset faces of chamfered boxes.
var boxQuads = [6]struct {
	ring [4]int
	axis int
	n    math.Vec3
}{
	{[4]int{0, 1, 2, 3}, 1, math.Vec3{Y: -1}},
	{[4]int{4, 7, 6, 5}, 1, math.Vec3{Y: 1}},
	{[4]int{0, 4, 5, 1}, 2, math.Vec3{Z: -1}},
	{[4]int{3, 2, 6, 7}, 2, math.Vec3{Z: 1}},
	{[4]int{0, 3, 7, 4}, 0, math.Vec3{X: -1}},
	{[4]int{1, 5, 6, 2}, 0, math.Vec3{X: 1}},
}

// boxEdges lists the 12 edges as corner index pairs.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom ring
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top ring
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // verticals
}

// emitBox appends an axis-aligned box: 8 vertices, 12 triangles.
func emitBox(m *Mesh, b math.AABB) {
	base := len(m.Vertices)
	corners := boxCorners(b)
	m.Vertices = append(m.Vertices, corners[:]...)
	for _, f := range boxFaces {
		m.Faces = append(m.Faces, [3]int{base + f.idx[0], base + f.idx[1], base + f.idx[2]})
		m.Normals = append(m.Normals, f.n)
	}
}

// emitChamferedBox appends a box with every edge beveled by c:
// 24 vertices and 44 triangles (6 inset faces, 12 edge bevels, 8
// corner cuts). Callers validate 0 < c < half the smallest extent.
func emitChamferedBox(m *Mesh, b math.AABB, c float64) {
	base := len(m.Vertices)
	corners := boxCorners(b)
	center := b.Center()

	// Three vertices per corner, one on each incident face: the corner
	// pulled inward by c along the two axes tangent to that face.
	// Index layout: base + corner*3 + faceAxis.
	for ci, p := range corners {
		s := cornerSigns[ci]
		var in [3]float64
		for axis := 0; axis < 3; axis++ {
			if s[axis] == 0 {
				in[axis] = c
			} else {
				in[axis] = -c
			}
		}
		vx := math.Vec3{X: p.X, Y: p.Y + in[1], Z: p.Z + in[2]}
		vy := math.Vec3{X: p.X + in[0], Y: p.Y, Z: p.Z + in[2]}
		vz := math.Vec3{X: p.X + in[0], Y: p.Y + in[1], Z: p.Z}
		m.Vertices = append(m.Vertices, vx, vy, vz)
	}

	vert := func(corner, axis int) int { return base + corner*3 + axis }

	// Inset faces keep the plain box windings.
	for _, q := range boxQuads {
		a := vert(q.ring[0], q.axis)
		b2 := vert(q.ring[1], q.axis)
		c2 := vert(q.ring[2], q.axis)
		d := vert(q.ring[3], q.axis)
		m.Faces = append(m.Faces, [3]int{a, b2, c2}, [3]int{a, c2, d})
		m.Normals = append(m.Normals, q.n, q.n)
	}

	// Edge bevels connect the two flanking faces' vertices of both
	// edge endpoints.
	for _, e := range boxEdges {
		u, v := otherAxes(edgeAxis(e))
		quad := [4]int{vert(e[0], u), vert(e[1], u), vert(e[1], v), vert(e[0], v)}
		emitQuadOutward(m, quad, center)
	}

	// Corner cuts.
	for ci := range corners {
		emitTriOutward(m, [3]int{vert(ci, 0), vert(ci, 1), vert(ci, 2)}, center)
	}
}

// edgeAxis returns the axis a box edge runs along.
func edgeAxis(e [2]int) int {
	a, b := cornerSigns[e[0]], cornerSigns[e[1]]
	for axis := 0; axis < 3; axis++ {
		if a[axis] != b[axis] {
			return axis
		}
	}
	return 0
}

// otherAxes returns the two axes perpendicular to the given one, in
// ascending order.
func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func triNormal(m *Mesh, a, b, c int) math.Vec3 {
	return m.Vertices[b].Sub(m.Vertices[a]).Cross(m.Vertices[c].Sub(m.Vertices[a])).Normalize()
}

// emitQuadOutward appends a planar quad as two triangles wound so the
// normal points away from center.
func emitQuadOutward(m *Mesh, q [4]int, center math.Vec3) {
	a, b, c, d := q[0], q[1], q[2], q[3]
	n := triNormal(m, a, b, c)
	mid := m.Vertices[a].Add(m.Vertices[b]).Add(m.Vertices[c]).Add(m.Vertices[d]).Scale(0.25)
	if n.Dot(mid.Sub(center)) < 0 {
		b, d = d, b
		n = n.Scale(-1)
	}
	m.Faces = append(m.Faces, [3]int{a, b, c}, [3]int{a, c, d})
	m.Normals = append(m.Normals, n, n)
}

// emitTriOutward appends a triangle wound so the normal points away
// from center.
func emitTriOutward(m *Mesh, t [3]int, center math.Vec3) {
	n := triNormal(m, t[0], t[1], t[2])
	mid := m.Vertices[t[0]].Add(m.Vertices[t[1]]).Add(m.Vertices[t[2]]).Scale(1.0 / 3)
	if n.Dot(mid.Sub(center)) < 0 {
		t[1], t[2] = t[2], t[1]
		n = n.Scale(-1)
	}
	m.Faces = append(m.Faces, t)
	m.Normals = append(m.Normals, n)
}
