package scene

import (
	"treegen/internal/mathutil"
	"treegen/internal/tree"
)

// Curve is the tree skeleton: an arena of splines, each an arena of points.
type Curve struct {
	Thickness  float64 // cross-section radius before per-point scaling
	Resolution int     // cross-section rounding
	FillCaps   bool
	Straight   bool // segments have vector handles
	Splines    []Spline
}

// Spline is one continuous run of control points.
type Spline struct {
	Points []tree.ControlPoint
}

// Clone returns a deep copy.
func (c *Curve) Clone() *Curve {
	out := *c
	out.Splines = make([]Spline, len(c.Splines))
	for i, sp := range c.Splines {
		out.Splines[i].Points = append([]tree.ControlPoint(nil), sp.Points...)
	}
	return &out
}

func (c *Curve) point(spline, point int) (*tree.ControlPoint, error) {
	if spline < 0 || spline >= len(c.Splines) {
		return nil, tree.StaleReferencef("scene: spline %d out of range (%d splines)", spline, len(c.Splines))
	}
	pts := c.Splines[spline].Points
	if point < 0 || point >= len(pts) {
		return nil, tree.StaleReferencef("scene: point %d out of range in spline %d (%d points)", point, spline, len(pts))
	}
	return &pts[point], nil
}

// CreateCurve adds a curve object with one two-point spline.
func (s *Scene) CreateCurve(name string, at mathutil.Vec3) error {
	c := &Curve{
		FillCaps: true,
		Splines: []Spline{{Points: []tree.ControlPoint{
			{Position: mathutil.Vec3{-1, 0, 0}, Radius: 1},
			{Position: mathutil.Vec3{1, 0, 0}, Radius: 1},
		}}},
	}
	return s.create(name, newObject(name, KindCurve, at, c, nil))
}

func (s *Scene) SetCrossSection(name string, thickness float64, resolution int) error {
	obj, err := s.curve(name)
	if err != nil {
		return err
	}
	if thickness < 0 || resolution < 0 {
		return tree.HostFailuref("scene: invalid cross section %g/%d", thickness, resolution)
	}
	obj.Curve.Thickness = thickness
	obj.Curve.Resolution = resolution
	return nil
}

func (s *Scene) SetStraightHandles(name string) error {
	obj, err := s.curve(name)
	if err != nil {
		return err
	}
	obj.Curve.Straight = true
	return nil
}

func (s *Scene) ControlPoint(name string, spline, point int) (tree.ControlPoint, error) {
	obj, err := s.curve(name)
	if err != nil {
		return tree.ControlPoint{}, err
	}
	p, err := obj.Curve.point(spline, point)
	if err != nil {
		return tree.ControlPoint{}, err
	}
	return *p, nil
}

func (s *Scene) SetControlPoint(name string, spline, point int, cp tree.ControlPoint) error {
	obj, err := s.curve(name)
	if err != nil {
		return err
	}
	p, err := obj.Curve.point(spline, point)
	if err != nil {
		return err
	}
	*p = cp
	return nil
}

func (s *Scene) Splines(name string) ([]int, error) {
	obj, err := s.curve(name)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(obj.Curve.Splines))
	for i, sp := range obj.Curve.Splines {
		counts[i] = len(sp.Points)
	}
	return counts, nil
}

// SplitAt copies a point into a new spline at the end of the spline list.
func (s *Scene) SplitAt(name string, spline, point int) (int, int, error) {
	obj, err := s.curve(name)
	if err != nil {
		return 0, 0, err
	}
	p, err := obj.Curve.point(spline, point)
	if err != nil {
		return 0, 0, err
	}
	obj.Curve.Splines = append(obj.Curve.Splines, Spline{Points: []tree.ControlPoint{*p}})
	return len(obj.Curve.Splines) - 1, 0, nil
}

// AppendPoint adds a point at world position pos. The new point inherits
// the radius of the spline's previous end point.
func (s *Scene) AppendPoint(name string, spline int, pos mathutil.Vec3) (int, error) {
	obj, err := s.curve(name)
	if err != nil {
		return 0, err
	}
	if spline < 0 || spline >= len(obj.Curve.Splines) {
		return 0, tree.StaleReferencef("scene: spline %d out of range (%d splines)", spline, len(obj.Curve.Splines))
	}
	sp := &obj.Curve.Splines[spline]
	radius := 1.0
	if n := len(sp.Points); n > 0 {
		radius = sp.Points[n-1].Radius
	}
	sp.Points = append(sp.Points, tree.ControlPoint{Position: pos.Sub(obj.Location), Radius: radius})
	return len(sp.Points) - 1, nil
}
