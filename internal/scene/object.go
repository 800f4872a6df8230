package scene

import "treegen/internal/mathutil"

// Kind tells curve objects from mesh objects.
type Kind string

const (
	KindCurve Kind = "curve"
	KindMesh  Kind = "mesh"
)

// Object is one named scene entry. Exactly one of Curve and Mesh is set,
// matching Kind.
type Object struct {
	Name     string
	Kind     Kind
	Location mathutil.Vec3
	Rotation mathutil.Vec3 // Euler XYZ, radians
	Scale    mathutil.Vec3
	Curve    *Curve
	Mesh     *Mesh
	Material string
	Flat     bool // faceted normals
}

func newObject(name string, kind Kind, at mathutil.Vec3, c *Curve, m *Mesh) *Object {
	return &Object{
		Name:     name,
		Kind:     kind,
		Location: at,
		Scale:    mathutil.Vec3{1, 1, 1},
		Curve:    c,
		Mesh:     m,
	}
}

// Matrix returns the local-to-world transform.
func (o *Object) Matrix() mathutil.Mat4 {
	return mathutil.FromTRS(o.Location, o.Rotation, o.Scale)
}

// WorldVertices returns the mesh vertices in world space.
func (o *Object) WorldVertices() []mathutil.Vec3 {
	if o.Mesh == nil {
		return nil
	}
	m := o.Matrix()
	out := make([]mathutil.Vec3, len(o.Mesh.Verts))
	for i, v := range o.Mesh.Verts {
		out[i] = m.MulPoint(v)
	}
	return out
}

func (o *Object) clone(name string) *Object {
	c := *o
	c.Name = name
	if o.Curve != nil {
		c.Curve = o.Curve.Clone()
	}
	if o.Mesh != nil {
		c.Mesh = o.Mesh.Clone()
	}
	return &c
}
