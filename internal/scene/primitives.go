package scene

import (
	"math"
	"sort"

	"treegen/internal/mathutil"
)

// Cube returns an axis-aligned cube of edge size centred on the origin.
func Cube(size float64) *Mesh {
	h := size / 2
	verts := []mathutil.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	return NewMesh(verts, [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {1, 2, 6, 5},
		{2, 3, 7, 6}, {3, 0, 4, 7},
	})
}

// Icosphere returns a subdivided icosahedron of the given radius.
func Icosphere(subdivisions int, radius float64) *Mesh {
	p := (1 + math.Sqrt(5)) / 2
	verts := []mathutil.Vec3{
		{-1, p, 0}, {1, p, 0}, {-1, -p, 0}, {1, -p, 0},
		{0, -1, p}, {0, 1, p}, {0, -1, -p}, {0, 1, -p},
		{p, 0, -1}, {p, 0, 1}, {-p, 0, -1}, {-p, 0, 1},
	}
	tris := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for i := range verts {
		verts[i] = verts[i].Normalize()
	}

	for s := 0; s < subdivisions; s++ {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			k := [2]int{min(a, b), max(a, b)}
			if i, ok := mid[k]; ok {
				return i
			}
			verts = append(verts, verts[a].Add(verts[b]).Normalize())
			mid[k] = len(verts) - 1
			return len(verts) - 1
		}
		next := make([][3]int, 0, len(tris)*4)
		for _, t := range tris {
			a := midpoint(t[0], t[1])
			b := midpoint(t[1], t[2])
			c := midpoint(t[2], t[0])
			next = append(next, [3]int{t[0], a, c}, [3]int{t[1], b, a}, [3]int{t[2], c, b}, [3]int{a, b, c})
		}
		tris = next
	}

	for i := range verts {
		verts[i] = verts[i].Scale(radius)
	}
	polys := make([][]int, len(tris))
	for i, t := range tris {
		polys[i] = []int{t[0], t[1], t[2]}
	}
	return NewMesh(verts, polys)
}

// Cone returns a capped cone standing on the XY plane.
func Cone(sides int, radius, height float64) *Mesh {
	verts := []mathutil.Vec3{{0, 0, height}}
	var polys [][]int
	base := make([]int, sides)
	for k := 0; k < sides; k++ {
		a := 2 * math.Pi * float64(k) / float64(sides)
		verts = append(verts, mathutil.Vec3{radius * math.Cos(a), radius * math.Sin(a), 0})
		base[sides-1-k] = k + 1
		polys = append(polys, []int{0, k + 1, (k+1)%sides + 1})
	}
	polys = append(polys, base)
	return NewMesh(verts, polys)
}

// transformed returns a copy of m with every vertex mapped by xf.
func transformed(m *Mesh, xf mathutil.Mat4) *Mesh {
	out := m.Clone()
	for i, v := range out.Verts {
		out.Verts[i] = xf.MulPoint(v)
	}
	return out
}

// combine merges meshes into one single-piece mesh.
func combine(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		out.append(m, mathutil.Mat4Identity())
	}
	out.Pieces = 1
	return out
}

// FoliageLibrary returns the built-in foliage source meshes by name.
func FoliageLibrary() map[string]*Mesh {
	id := mathutil.Vec3{}
	one := mathutil.Vec3{1, 1, 1}
	move := func(x, y, z float64) mathutil.Mat4 {
		return mathutil.FromTRS(mathutil.Vec3{x, y, z}, id, one)
	}

	bushy := combine(
		transformed(Icosphere(0, 0.6), move(0, 0, 0.1)),
		transformed(Icosphere(0, 0.45), move(0.45, 0.1, -0.05)),
		transformed(Icosphere(0, 0.45), move(-0.35, 0.3, 0)),
		transformed(Icosphere(0, 0.4), move(0, -0.4, 0.05)),
	)

	leaves := transformed(Icosphere(1, 1), mathutil.FromTRS(id, id, mathutil.Vec3{1, 1, 0.4}))

	var petals []*Mesh
	for k := 0; k < 5; k++ {
		a := 2 * math.Pi * float64(k) / 5
		xf := mathutil.FromTRS(mathutil.Vec3{0.3 * math.Cos(a), 0.3 * math.Sin(a), 0}, mathutil.Vec3{0, 0, a}, mathutil.Vec3{1, 0.5, 0.2})
		petals = append(petals, transformed(Cube(0.5), xf))
	}
	petals = append(petals, Icosphere(0, 0.15))

	return map[string]*Mesh{
		"FoliageSphere":             Icosphere(1, 1),
		"FoliageCube":               Cube(1.4),
		"FoliageBushy":              bushy,
		"FoliageRhododendron":       leaves,
		"FoliageRhododendronBud":    Cone(5, 0.35, 0.8),
		"FoliageRhododendronFlower": combine(petals...),
	}
}

// AddFoliageLibrary registers the built-in foliage meshes in a row away
// from the origin, the way hand-authored source meshes usually sit.
func AddFoliageLibrary(s *Scene) error {
	lib := FoliageLibrary()
	names := make([]string, 0, len(lib))
	for n := range lib {
		names = append(names, n)
	}
	sort.Strings(names)
	for i, n := range names {
		at := mathutil.Vec3{float64(i) * 4, -40, 0}
		if err := s.AddMesh(n, lib[n], at); err != nil {
			return err
		}
	}
	return nil
}
