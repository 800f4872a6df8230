package tree

import "treegen/internal/mathutil"

// ControlPoint is one skeleton point. Position is relative to the curve
// object's location.
type ControlPoint struct {
	Position mathutil.Vec3
	Radius   float64
}

// Host owns the scene: curves, meshes and the operators that edit them.
// Objects are addressed by name. Every call either succeeds completely or
// leaves the scene unchanged.
type Host interface {
	// Delete removes the named object. Missing objects are not an error.
	Delete(name string) error

	// CreateCurve adds a curve object at `at` with a single two-point spline.
	CreateCurve(name string, at mathutil.Vec3) error
	SetCrossSection(name string, thickness float64, resolution int) error
	SetStraightHandles(name string) error
	ControlPoint(name string, spline, point int) (ControlPoint, error)
	SetControlPoint(name string, spline, point int, cp ControlPoint) error
	// Splines returns the point count of every spline, in order.
	Splines(name string) ([]int, error)
	// SplitAt copies a point into a new spline and returns the new spline
	// and the index of the copied point within it.
	SplitAt(name string, spline, point int) (newSpline, newPoint int, err error)
	// AppendPoint adds a point at world position pos to the end of a spline
	// and returns its index.
	AppendPoint(name string, spline int, pos mathutil.Vec3) (int, error)

	ConvertToMesh(name string) error
	WeldVertices(name string, threshold float64) error
	AssignMaterial(name, material string) error
	RandomizeVertices(name string, seed uint64, ratio, offset float64) error
	SetUniformUV(name string, uv [2]float64) error
	ShadeFlat(name string) error

	CreateEmptyMesh(name string, at mathutil.Vec3) error
	Origin(name string) (mathutil.Vec3, error)
	Duplicate(src, dst string, translate mathutil.Vec3) error
	Scale(name string, s mathutil.Vec3) error
	Rotate(name string, euler mathutil.Vec3) error
	// Merge joins sources into target and removes them from the scene.
	Merge(target string, sources ...string) error
}
