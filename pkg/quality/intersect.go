package quality

import (
	gomath "math"
	"sort"

	"github.com/printlab/dotforge/pkg/math"
	"github.com/printlab/dotforge/pkg/mesh"
)

// findSelfIntersections counts face pairs that pass through each other.
// Pairs sharing a vertex position are skipped because neighboring faces
// of a closed surface legitimately touch along edges and corners, and
// coplanar contact is skipped because coincident walls are the face
// merger's domain. Meshes above faceLimit are reported unevaluated.
func findSelfIntersections(m *mesh.Mesh, faceLimit int) SelfIntersectionReport {
	var rep SelfIntersectionReport
	if len(m.Faces) > faceLimit {
		return rep
	}
	rep.Evaluated = true

	const posQuantum = 1e-7
	boxes := make([]math.AABB, len(m.Faces))
	keys := make([][3][3]int64, len(m.Faces))
	for i, f := range m.Faces {
		box := math.EmptyAABB()
		for k, vi := range f {
			v := m.Vertices[vi]
			box = box.Extend(v)
			keys[i][k] = [3]int64{
				int64(gomath.Round(v.X / posQuantum)),
				int64(gomath.Round(v.Y / posQuantum)),
				int64(gomath.Round(v.Z / posQuantum)),
			}
		}
		boxes[i] = box
	}

	// Sweep along X so distant faces never reach the pair test.
	order := make([]int, len(m.Faces))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return boxes[order[a]].Min.X < boxes[order[b]].Min.X })

	for oi, i := range order {
		for _, j := range order[oi+1:] {
			if boxes[j].Min.X > boxes[i].Max.X {
				break
			}
			if !boxes[i].Overlaps(boxes[j]) {
				continue
			}
			if sharePosition(keys[i], keys[j]) {
				continue
			}
			rep.CheckedPairs++
			if trianglesCross(
				m.Vertices[m.Faces[i][0]], m.Vertices[m.Faces[i][1]], m.Vertices[m.Faces[i][2]],
				m.Vertices[m.Faces[j][0]], m.Vertices[m.Faces[j][1]], m.Vertices[m.Faces[j][2]],
			) {
				rep.Count++
			}
		}
	}
	return rep
}

func sharePosition(a, b [3][3]int64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if a[i] == b[j] {
				return true
			}
		}
	}
	return false
}

// trianglesCross is the interval form of the Moller triangle test:
// each triangle is cut by the other's plane and the two cuts, which
// both lie on the planes' intersection line, must overlap with
// positive length. Touch-only contact therefore does not count.
func trianglesCross(a0, a1, a2, b0, b1, b2 math.Vec3) bool {
	const eps = 1e-9

	nb := b1.Sub(b0).Cross(b2.Sub(b0))
	if nb.Length() < eps {
		return false
	}
	nb = nb.Normalize()
	da := [3]float64{nb.Dot(a0.Sub(b0)), nb.Dot(a1.Sub(b0)), nb.Dot(a2.Sub(b0))}
	if sameSide(da, eps) {
		return false
	}

	na := a1.Sub(a0).Cross(a2.Sub(a0))
	if na.Length() < eps {
		return false
	}
	na = na.Normalize()
	db := [3]float64{na.Dot(b0.Sub(a0)), na.Dot(b1.Sub(a0)), na.Dot(b2.Sub(a0))}
	if sameSide(db, eps) {
		return false
	}

	line := na.Cross(nb)
	if line.Length() < eps {
		return false
	}

	aLo, aHi, ok := lineInterval(line, [3]math.Vec3{a0, a1, a2}, da, eps)
	if !ok {
		return false
	}
	bLo, bHi, ok := lineInterval(line, [3]math.Vec3{b0, b1, b2}, db, eps)
	if !ok {
		return false
	}
	return gomath.Min(aHi, bHi)-gomath.Max(aLo, bLo) > eps
}

func sameSide(d [3]float64, eps float64) bool {
	if d[0] > eps && d[1] > eps && d[2] > eps {
		return true
	}
	return d[0] < -eps && d[1] < -eps && d[2] < -eps
}

// lineInterval projects the points where the triangle meets the other
// plane onto the intersection line and returns their parameter range.
func lineInterval(line math.Vec3, p [3]math.Vec3, dist [3]float64, eps float64) (lo, hi float64, ok bool) {
	ts := make([]float64, 0, 3)
	for i := 0; i < 3; i++ {
		if gomath.Abs(dist[i]) <= eps {
			ts = append(ts, line.Dot(p[i]))
		}
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if (dist[i] > eps && dist[j] < -eps) || (dist[i] < -eps && dist[j] > eps) {
			f := dist[i] / (dist[i] - dist[j])
			at := p[i].Add(p[j].Sub(p[i]).Scale(f))
			ts = append(ts, line.Dot(at))
		}
	}
	if len(ts) == 0 {
		return 0, 0, false
	}
	lo, hi = ts[0], ts[0]
	for _, t := range ts[1:] {
		lo = gomath.Min(lo, t)
		hi = gomath.Max(hi, t)
	}
	return lo, hi, true
}
