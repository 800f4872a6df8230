package scene

import (
	"math"
	"math/rand/v2"

	"treegen/internal/mathutil"
	"treegen/internal/tree"
)

// Face is one polygon. UV holds one coordinate per corner (loop).
type Face struct {
	V  []int
	UV [][2]float64
}

// Mesh is polygon geometry in object space.
type Mesh struct {
	Verts  []mathutil.Vec3
	Faces  []Face
	Pieces int // number of meshes merged into this one
}

// NewMesh builds a single-piece mesh from vertices and polygons, with
// zeroed UVs.
func NewMesh(verts []mathutil.Vec3, polys [][]int) *Mesh {
	m := &Mesh{Verts: verts, Pieces: 1}
	for _, p := range polys {
		m.Faces = append(m.Faces, Face{V: p, UV: make([][2]float64, len(p))})
	}
	return m
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Verts:  append([]mathutil.Vec3(nil), m.Verts...),
		Faces:  make([]Face, len(m.Faces)),
		Pieces: m.Pieces,
	}
	for i, f := range m.Faces {
		out.Faces[i] = Face{
			V:  append([]int(nil), f.V...),
			UV: append([][2]float64(nil), f.UV...),
		}
	}
	return out
}

// DistinctUVs returns every distinct loop UV in first-seen order.
func (m *Mesh) DistinctUVs() [][2]float64 {
	seen := make(map[[2]float64]bool)
	var out [][2]float64
	for _, f := range m.Faces {
		for _, uv := range f.UV {
			if !seen[uv] {
				seen[uv] = true
				out = append(out, uv)
			}
		}
	}
	return out
}

// Bounds returns the axis-aligned box of the vertices.
func (m *Mesh) Bounds() (mathutil.Vec3, mathutil.Vec3) {
	if len(m.Verts) == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	lo, hi := m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// Weld merges vertices closer than threshold and drops faces that collapse.
func (m *Mesh) Weld(threshold float64) {
	if len(m.Verts) == 0 || threshold <= 0 {
		return
	}

	type cell [3]int64
	key := func(v mathutil.Vec3) cell {
		return cell{
			int64(math.Floor(v[0] / threshold)),
			int64(math.Floor(v[1] / threshold)),
			int64(math.Floor(v[2] / threshold)),
		}
	}

	grid := make(map[cell][]int)
	remap := make([]int, len(m.Verts))
	var kept []mathutil.Vec3

	for i, v := range m.Verts {
		k := key(v)
		found := -1
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range grid[cell{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if kept[j].Sub(v).Len() <= threshold {
							found = j
							break search
						}
					}
				}
			}
		}
		if found < 0 {
			found = len(kept)
			kept = append(kept, v)
			grid[k] = append(grid[k], found)
		}
		remap[i] = found
	}

	faces := m.Faces[:0]
	for _, f := range m.Faces {
		var nv []int
		var nuv [][2]float64
		for c, vi := range f.V {
			r := remap[vi]
			if len(nv) > 0 && nv[len(nv)-1] == r {
				continue
			}
			nv = append(nv, r)
			nuv = append(nuv, f.UV[c])
		}
		if len(nv) > 1 && nv[0] == nv[len(nv)-1] {
			nv = nv[:len(nv)-1]
			nuv = nuv[:len(nuv)-1]
		}
		if len(nv) < 3 {
			continue
		}
		faces = append(faces, Face{V: nv, UV: nuv})
	}

	m.Verts = kept
	m.Faces = faces
}

// Randomize moves a random subset of vertices (each picked with
// probability ratio) by up to offset along every axis. The draws come from
// their own stream seeded by seed.
func (m *Mesh) Randomize(seed uint64, ratio, offset float64) {
	rng := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
	for i := range m.Verts {
		if rng.Float64() >= ratio {
			continue
		}
		d := mathutil.Vec3{
			(rng.Float64()*2 - 1) * offset,
			(rng.Float64()*2 - 1) * offset,
			(rng.Float64()*2 - 1) * offset,
		}
		m.Verts[i] = m.Verts[i].Add(d)
	}
}

// SetUniformUV paints every loop with uv.
func (m *Mesh) SetUniformUV(uv [2]float64) {
	for i := range m.Faces {
		f := &m.Faces[i]
		if len(f.UV) != len(f.V) {
			f.UV = make([][2]float64, len(f.V))
		}
		for c := range f.UV {
			f.UV[c] = uv
		}
	}
}

// append adds src's geometry, transformed by xf, to m.
func (m *Mesh) append(src *Mesh, xf mathutil.Mat4) {
	base := len(m.Verts)
	for _, v := range src.Verts {
		m.Verts = append(m.Verts, xf.MulPoint(v))
	}
	for _, f := range src.Faces {
		nv := make([]int, len(f.V))
		for i, vi := range f.V {
			nv[i] = vi + base
		}
		m.Faces = append(m.Faces, Face{V: nv, UV: append([][2]float64(nil), f.UV...)})
	}
	m.Pieces += src.Pieces
}

// Scene operators on mesh objects.

func (s *Scene) WeldVertices(name string, threshold float64) error {
	obj, err := s.mesh(name)
	if err != nil {
		return err
	}
	obj.Mesh.Weld(threshold)
	return nil
}

func (s *Scene) AssignMaterial(name, material string) error {
	obj, err := s.mesh(name)
	if err != nil {
		return err
	}
	if !s.materials[material] {
		return tree.HostFailuref("scene: no material %q", material)
	}
	obj.Material = material
	return nil
}

func (s *Scene) RandomizeVertices(name string, seed uint64, ratio, offset float64) error {
	obj, err := s.mesh(name)
	if err != nil {
		return err
	}
	obj.Mesh.Randomize(seed, ratio, offset)
	return nil
}

func (s *Scene) SetUniformUV(name string, uv [2]float64) error {
	obj, err := s.mesh(name)
	if err != nil {
		return err
	}
	obj.Mesh.SetUniformUV(uv)
	return nil
}

// ShadeFlat marks an object for faceted shading. Works on curves too; the
// flag survives conversion.
func (s *Scene) ShadeFlat(name string) error {
	obj, err := s.get(name)
	if err != nil {
		return err
	}
	obj.Flat = true
	return nil
}

func (s *Scene) CreateEmptyMesh(name string, at mathutil.Vec3) error {
	return s.create(name, newObject(name, KindMesh, at, nil, &Mesh{}))
}

func (s *Scene) Origin(name string) (mathutil.Vec3, error) {
	obj, err := s.get(name)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	return obj.Location, nil
}

// Duplicate copies src to dst and moves the copy by translate.
func (s *Scene) Duplicate(src, dst string, translate mathutil.Vec3) error {
	obj, err := s.get(src)
	if err != nil {
		return err
	}
	dup := obj.clone(dst)
	dup.Location = dup.Location.Add(translate)
	return s.create(dst, dup)
}

// Scale multiplies the object's scale by sc.
func (s *Scene) Scale(name string, sc mathutil.Vec3) error {
	obj, err := s.get(name)
	if err != nil {
		return err
	}
	obj.Scale = obj.Scale.Mul(sc)
	return nil
}

// Rotate sets the object's Euler rotation.
func (s *Scene) Rotate(name string, euler mathutil.Vec3) error {
	obj, err := s.get(name)
	if err != nil {
		return err
	}
	obj.Rotation = euler
	return nil
}

// Merge moves the geometry of every source into target's object space and
// deletes the sources. Sources are checked before anything is moved.
func (s *Scene) Merge(target string, sources ...string) error {
	dst, err := s.mesh(target)
	if err != nil {
		return err
	}
	objs := make([]*Object, 0, len(sources))
	for _, name := range sources {
		if name == target {
			return tree.HostFailuref("scene: cannot merge %q into itself", name)
		}
		src, err := s.mesh(name)
		if err != nil {
			return err
		}
		objs = append(objs, src)
	}

	inv, ok := dst.Matrix().InverseAffine()
	if !ok {
		return tree.HostFailuref("scene: %q has a degenerate transform", target)
	}
	for _, src := range objs {
		dst.Mesh.append(src.Mesh, mathutil.Mat4Mul(inv, src.Matrix()))
		delete(s.objects, src.Name)
	}
	return nil
}
