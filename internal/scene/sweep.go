package scene

import (
	"math"

	"treegen/internal/mathutil"
)

// Sides returns the cross-section polygon size for a curve resolution:
// 0 gives a square, every step adds four sides.
func Sides(resolution int) int {
	return 4 * (resolution + 1)
}

// Sweep turns every spline of c into a tube. Ring radius at a point is
// Thickness * point radius. Splines with fewer than two points produce
// nothing.
func Sweep(c *Curve) *Mesh {
	m := &Mesh{Pieces: 1}
	sides := Sides(c.Resolution)

	for _, sp := range c.Splines {
		n := len(sp.Points)
		if n < 2 {
			continue
		}

		var normal mathutil.Vec3
		rings := make([]int, n)
		for j, cp := range sp.Points {
			t := tangent(sp, j)
			if j == 0 {
				normal = t.Perpendicular()
			} else {
				// Parallel transport keeps consecutive rings from twisting.
				normal = normal.Sub(t.Scale(normal.Dot(t)))
				if normal.Len() < 1e-9 {
					normal = t.Perpendicular()
				}
				normal = normal.Normalize()
			}
			binormal := t.Cross(normal)

			rings[j] = len(m.Verts)
			r := c.Thickness * cp.Radius
			for k := 0; k < sides; k++ {
				a := 2*math.Pi*float64(k)/float64(sides) + math.Pi/float64(sides)
				d := normal.Scale(math.Cos(a)).Add(binormal.Scale(math.Sin(a)))
				m.Verts = append(m.Verts, cp.Position.Add(d.Scale(r)))
			}
		}

		for j := 0; j+1 < n; j++ {
			a, b := rings[j], rings[j+1]
			for k := 0; k < sides; k++ {
				k1 := (k + 1) % sides
				m.addFace(a+k, a+k1, b+k1, b+k)
			}
		}

		if c.FillCaps {
			first := make([]int, sides)
			last := make([]int, sides)
			for k := 0; k < sides; k++ {
				first[k] = rings[0] + sides - 1 - k
				last[k] = rings[n-1] + k
			}
			m.addFace(first...)
			m.addFace(last...)
		}
	}
	return m
}

func (m *Mesh) addFace(v ...int) {
	m.Faces = append(m.Faces, Face{V: v, UV: make([][2]float64, len(v))})
}

// tangent averages the directions of the segments meeting at point j.
func tangent(sp Spline, j int) mathutil.Vec3 {
	pts := sp.Points
	var t mathutil.Vec3
	if j > 0 {
		t = t.Add(pts[j].Position.Sub(pts[j-1].Position).Normalize())
	}
	if j+1 < len(pts) {
		t = t.Add(pts[j+1].Position.Sub(pts[j].Position).Normalize())
	}
	if t.Len() < 1e-9 {
		return mathutil.Vec3{0, 0, 1}
	}
	return t.Normalize()
}

// ConvertToMesh replaces a curve object with its swept mesh. Name,
// transform, material and shading carry over.
func (s *Scene) ConvertToMesh(name string) error {
	obj, err := s.curve(name)
	if err != nil {
		return err
	}
	obj.Mesh = Sweep(obj.Curve)
	obj.Curve = nil
	obj.Kind = KindMesh
	return nil
}
