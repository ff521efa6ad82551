package mesh

import (
	gomath "math"
	"sort"

	"github.com/printlab/dotforge/pkg/math"
	"github.com/printlab/dotforge/pkg/pattern"
)

// weldTolerance is the coordinate quantum used when testing vertices
// and faces for coincidence. Well below any printable feature size,
// well above float64 noise from grid arithmetic.
const weldTolerance = 1e-6

func quantCoord(v float64) int64 {
	return int64(gomath.Round(v / weldTolerance))
}

func quantKey(v math.Vec3) [3]int64 {
	return [3]int64{quantCoord(v.X), quantCoord(v.Y), quantCoord(v.Z)}
}

func near(a, b float64) bool {
	return gomath.Abs(a-b) < weldTolerance
}

// MergeAdjacentFaces removes the hidden walls between touching cubes:
// coincident vertices are welded, coincident opposite-facing face
// pairs are dropped, and orphaned vertices compacted. Returns the
// number of faces removed. Patterns without a 4-connected active pair
// are left untouched, as are meshes whose cubes do not touch.
func MergeAdjacentFaces(m *Mesh, pat *pattern.Pattern) int {
	if m.IsEmpty() {
		return 0
	}
	if pat != nil && !pat.HasAdjacentPair() {
		return 0
	}

	welded := weldVertices(m)

	// Coincident faces reference the same three welded vertices.
	groups := make(map[[3]int][]int, len(m.Faces))
	for i, f := range m.Faces {
		k := sortedFace(f)
		groups[k] = append(groups[k], i)
	}
	removed := make([]bool, len(m.Faces))
	nRemoved := 0
	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		for ai := 0; ai < len(idxs); ai++ {
			a := idxs[ai]
			if removed[a] {
				continue
			}
			for bi := ai + 1; bi < len(idxs); bi++ {
				b := idxs[bi]
				if removed[b] {
					continue
				}
				if m.Normals[a].Dot(m.Normals[b]) < -0.5 {
					removed[a], removed[b] = true, true
					nRemoved += 2
					break
				}
			}
		}
	}

	if nRemoved == 0 && welded == 0 {
		return 0
	}
	if nRemoved > 0 {
		faces := m.Faces[:0]
		normals := m.Normals[:0]
		for i, f := range m.Faces {
			if removed[i] {
				continue
			}
			faces = append(faces, f)
			normals = append(normals, m.Normals[i])
		}
		m.Faces = faces
		m.Normals = normals
	}
	compactVertices(m)
	return nRemoved
}

// weldVertices remaps faces so vertices sharing a quantized position
// use a single index. Returns the number of indices remapped; the
// now-unreferenced duplicates are left for compaction.
func weldVertices(m *Mesh) int {
	first := make(map[[3]int64]int, len(m.Vertices))
	remap := make([]int, len(m.Vertices))
	welded := 0
	for i, v := range m.Vertices {
		k := quantKey(v)
		if j, ok := first[k]; ok {
			remap[i] = j
			welded++
		} else {
			first[k] = i
			remap[i] = i
		}
	}
	if welded == 0 {
		return 0
	}
	for i, f := range m.Faces {
		m.Faces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return welded
}

func sortedFace(f [3]int) [3]int {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// compactVertices drops vertices no face references, renumbering in
// first-use order.
func compactVertices(m *Mesh) {
	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	kept := make([]math.Vec3, 0, len(m.Vertices))
	for fi, f := range m.Faces {
		for k, vi := range f {
			if remap[vi] == -1 {
				remap[vi] = len(kept)
				kept = append(kept, m.Vertices[vi])
			}
			m.Faces[fi][k] = remap[vi]
		}
	}
	m.Vertices = kept
}

// planeKey identifies one carrier plane of axis-aligned faces.
type planeKey struct {
	axis int // normal axis
	sign int // +1 or -1
	w    int64
}

// rectCell is an axis-aligned rectangle in plane coordinates.
type rectCell struct {
	u0, v0, u1, v1 float64
}

// Optimize merges adjacent coplanar rectangles into larger ones and
// re-triangulates them, reducing the face count. Only axis-aligned
// rectangle pairs are touched; bevels and lone triangles pass through
// unchanged. Volume, surface area and bounds are preserved. Returns
// the number of faces eliminated.
//
// Merged rectangles can leave T-shaped seams where a long edge meets
// two shorter ones; the seam vertices lie exactly on the covering
// edge, so the surface stays geometrically closed even though naive
// edge counting sees the seam as open.
func Optimize(m *Mesh) int {
	if m.IsEmpty() {
		return 0
	}

	// Bucket axis-aligned triangles by carrier plane.
	planes := make(map[planeKey][]int)
	for i := range m.Faces {
		axis, sign, ok := faceAxis(m.Normals[i])
		if !ok {
			continue
		}
		a, b, c := m.facePoints(i)
		w := a.Component(axis)
		if !near(w, b.Component(axis)) || !near(w, c.Component(axis)) {
			continue
		}
		k := planeKey{axis: axis, sign: sign, w: quantCoord(w)}
		planes[k] = append(planes[k], i)
	}

	keys := make([]planeKey, 0, len(planes))
	for k := range planes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.axis != b.axis {
			return a.axis < b.axis
		}
		if a.sign != b.sign {
			return a.sign < b.sign
		}
		return a.w < b.w
	})

	type planeEmit struct {
		key   planeKey
		w     float64
		rects []rectCell
	}
	drop := make([]bool, len(m.Faces))
	var emits []planeEmit
	savings := 0
	for _, k := range keys {
		idxs := planes[k]
		cells, used := pairRectCells(m, k.axis, idxs)
		if len(cells) < 2 {
			continue
		}
		merged := mergeRectCells(cells)
		if len(merged) == len(cells) {
			continue
		}
		for _, fi := range used {
			drop[fi] = true
		}
		wf := m.facePlaneCoord(used[0], k.axis)
		emits = append(emits, planeEmit{key: k, w: wf, rects: merged})
		savings += len(used) - 2*len(merged)
	}
	if len(emits) == 0 {
		return 0
	}

	faces := m.Faces[:0]
	normals := m.Normals[:0]
	for i, f := range m.Faces {
		if drop[i] {
			continue
		}
		faces = append(faces, f)
		normals = append(normals, m.Normals[i])
	}
	m.Faces = faces
	m.Normals = normals

	// Re-emit merged rectangles, reusing existing vertices by
	// position. Lowest index wins so output stays deterministic.
	posIndex := make(map[[3]int64]int, len(m.Vertices))
	for i := len(m.Vertices) - 1; i >= 0; i-- {
		posIndex[quantKey(m.Vertices[i])] = i
	}
	lookup := func(p math.Vec3) int {
		k := quantKey(p)
		if i, ok := posIndex[k]; ok {
			return i
		}
		i := len(m.Vertices)
		m.Vertices = append(m.Vertices, p)
		posIndex[k] = i
		return i
	}
	for _, e := range emits {
		n := axisNormal(e.key.axis, e.key.sign)
		order := rectTris(e.key.axis, e.key.sign)
		for _, r := range e.rects {
			corners := [4]int{
				lookup(rectCorner(e.key.axis, e.w, r.u0, r.v0)),
				lookup(rectCorner(e.key.axis, e.w, r.u1, r.v0)),
				lookup(rectCorner(e.key.axis, e.w, r.u1, r.v1)),
				lookup(rectCorner(e.key.axis, e.w, r.u0, r.v1)),
			}
			for _, tri := range order {
				m.Faces = append(m.Faces, [3]int{corners[tri[0]], corners[tri[1]], corners[tri[2]]})
				m.Normals = append(m.Normals, n)
			}
		}
	}
	compactVertices(m)
	return savings
}

// pairRectCells reassembles a plane's triangles into full rectangles.
// A cell needs two triangles with the same bounding rectangle whose
// vertices are all rectangle corners and that cover all four corners
// between them. Unpaired triangles are skipped. Returns the cells and
// the face indices they consume.
func pairRectCells(m *Mesh, axis int, idxs []int) ([]rectCell, []int) {
	uAxis, vAxis := otherAxes(axis)
	bboxGroups := make(map[[4]int64][]int)
	for _, fi := range idxs {
		a, b, c := m.facePoints(fi)
		u0 := gomath.Min(a.Component(uAxis), gomath.Min(b.Component(uAxis), c.Component(uAxis)))
		u1 := gomath.Max(a.Component(uAxis), gomath.Max(b.Component(uAxis), c.Component(uAxis)))
		v0 := gomath.Min(a.Component(vAxis), gomath.Min(b.Component(vAxis), c.Component(vAxis)))
		v1 := gomath.Max(a.Component(vAxis), gomath.Max(b.Component(vAxis), c.Component(vAxis)))
		k := [4]int64{quantCoord(u0), quantCoord(v0), quantCoord(u1), quantCoord(v1)}
		bboxGroups[k] = append(bboxGroups[k], fi)
	}

	var cells []rectCell
	var used []int
	for _, group := range bboxGroups {
		if len(group) < 2 {
			continue
		}
		for i := 0; i+1 < len(group); i += 2 {
			f1, f2 := group[i], group[i+1]
			cell, ok := coverRect(m, f1, f2, uAxis, vAxis)
			if !ok {
				break
			}
			cells = append(cells, cell)
			used = append(used, f1, f2)
		}
	}
	sort.Ints(used)
	sortCells(cells)
	return cells, used
}

// coverRect checks that two triangles tile one rectangle exactly:
// each is a half-rectangle over three distinct corners, and the two
// missing corners are diagonally opposite.
func coverRect(m *Mesh, f1, f2, uAxis, vAxis int) (rectCell, bool) {
	pts := make([]math.Vec3, 0, 6)
	a, b, c := m.facePoints(f1)
	pts = append(pts, a, b, c)
	a, b, c = m.facePoints(f2)
	pts = append(pts, a, b, c)

	u0, v0 := gomath.Inf(1), gomath.Inf(1)
	u1, v1 := gomath.Inf(-1), gomath.Inf(-1)
	for _, p := range pts {
		u0 = gomath.Min(u0, p.Component(uAxis))
		u1 = gomath.Max(u1, p.Component(uAxis))
		v0 = gomath.Min(v0, p.Component(vAxis))
		v1 = gomath.Max(v1, p.Component(vAxis))
	}
	if near(u0, u1) || near(v0, v1) {
		return rectCell{}, false
	}

	cornerOf := func(p math.Vec3) int {
		u, v := p.Component(uAxis), p.Component(vAxis)
		switch {
		case near(u, u0) && near(v, v0):
			return 0
		case near(u, u1) && near(v, v0):
			return 1
		case near(u, u1) && near(v, v1):
			return 2
		case near(u, u0) && near(v, v1):
			return 3
		default:
			return -1
		}
	}
	missing := func(tri []math.Vec3) int {
		var hit [4]bool
		for _, p := range tri {
			ci := cornerOf(p)
			if ci < 0 || hit[ci] {
				return -1
			}
			hit[ci] = true
		}
		for ci, h := range hit {
			if !h {
				return ci
			}
		}
		return -1
	}
	m1 := missing(pts[:3])
	m2 := missing(pts[3:])
	if m1 < 0 || m2 < 0 || (m1+2)%4 != m2 {
		return rectCell{}, false
	}
	return rectCell{u0: u0, v0: v0, u1: u1, v1: v1}, true
}

func sortCells(cells []rectCell) {
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if !near(a.v0, b.v0) {
			return a.v0 < b.v0
		}
		return a.u0 < b.u0
	})
}

// mergeRectCells greedily coalesces rectangles into maximal strips
// along u, then stacks strips with identical u extents along v. Input
// must be sorted by (v0, u0).
func mergeRectCells(cells []rectCell) []rectCell {
	var strips []rectCell
	for _, c := range cells {
		if n := len(strips); n > 0 {
			p := &strips[n-1]
			if near(p.v0, c.v0) && near(p.v1, c.v1) && near(p.u1, c.u0) {
				p.u1 = c.u1
				continue
			}
		}
		strips = append(strips, c)
	}

	sort.Slice(strips, func(i, j int) bool {
		a, b := strips[i], strips[j]
		if !near(a.u0, b.u0) {
			return a.u0 < b.u0
		}
		return a.v0 < b.v0
	})
	var stacked []rectCell
	for _, s := range strips {
		if n := len(stacked); n > 0 {
			p := &stacked[n-1]
			if near(p.u0, s.u0) && near(p.u1, s.u1) && near(p.v1, s.v0) {
				p.v1 = s.v1
				continue
			}
		}
		stacked = append(stacked, s)
	}
	sortCells(stacked)
	return stacked
}

// faceAxis classifies a normal as one of the six axis directions.
func faceAxis(n math.Vec3) (axis, sign int, ok bool) {
	const tol = 1e-9
	switch {
	case gomath.Abs(n.X-1) < tol:
		return 0, 1, true
	case gomath.Abs(n.X+1) < tol:
		return 0, -1, true
	case gomath.Abs(n.Y-1) < tol:
		return 1, 1, true
	case gomath.Abs(n.Y+1) < tol:
		return 1, -1, true
	case gomath.Abs(n.Z-1) < tol:
		return 2, 1, true
	case gomath.Abs(n.Z+1) < tol:
		return 2, -1, true
	}
	return 0, 0, false
}

func axisNormal(axis, sign int) math.Vec3 {
	s := float64(sign)
	switch axis {
	case 0:
		return math.Vec3{X: s}
	case 1:
		return math.Vec3{Y: s}
	default:
		return math.Vec3{Z: s}
	}
}

func (m *Mesh) facePlaneCoord(fi, axis int) float64 {
	a, _, _ := m.facePoints(fi)
	return a.Component(axis)
}

// rectCorner maps plane coordinates back to 3D. The (u, v) axes per
// normal axis match otherAxes: X->(Y,Z), Y->(X,Z), Z->(X,Y).
func rectCorner(axis int, w, u, v float64) math.Vec3 {
	switch axis {
	case 0:
		return math.Vec3{X: w, Y: u, Z: v}
	case 1:
		return math.Vec3{X: u, Y: w, Z: v}
	default:
		return math.Vec3{X: u, Y: v, Z: w}
	}
}

// rectTris gives outward triangle windings over the rectangle corners
// [(u0,v0), (u1,v0), (u1,v1), (u0,v1)] for each face direction. The
// diagonals match the ones emitBox uses, so untouched cells
// re-triangulate identically.
func rectTris(axis, sign int) [2][3]int {
	if (axis == 1 && sign > 0) || (axis == 2 && sign < 0) || (axis == 0 && sign < 0) {
		return [2][3]int{{0, 3, 2}, {0, 2, 1}}
	}
	return [2][3]int{{0, 1, 2}, {0, 2, 3}}
}
