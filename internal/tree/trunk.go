package tree

import (
	"fmt"
	"math"

	"treegen/internal/mathutil"
)

// makeTrunk creates the curve object with its first two-point segment and
// returns the reference of the top point.
func (r *run) makeTrunk(cfg TrunkConfig) (PointReference, error) {
	r.log.Debug("make trunk", "seed", r.seed, "name", r.name, "root", r.root)

	if err := r.host.CreateCurve(r.name, r.root); err != nil {
		return PointReference{}, WrapHost(fmt.Sprintf("trunk: create curve %q", r.name), err)
	}

	height := uniform(r.rng, cfg.HeightMin, cfg.HeightMax)
	thickness := uniform(r.rng, cfg.ThicknessMin, cfg.ThicknessMax)
	angleX := uniform(r.rng, -cfg.AngleRandomMax[0], cfg.AngleRandomMax[0])
	angleY := uniform(r.rng, -cfg.AngleRandomMax[1], cfg.AngleRandomMax[1])

	if err := r.host.SetCrossSection(r.name, thickness, cfg.Resolution); err != nil {
		return PointReference{}, WrapHost("trunk: cross section", err)
	}

	base := ControlPoint{Radius: cfg.BaseThicknessFactor}
	if err := r.host.SetControlPoint(r.name, 0, 0, base); err != nil {
		return PointReference{}, WrapHost("trunk: base point", err)
	}

	// Lean per axis via sine, not a full rotation.
	top := ControlPoint{
		Position: mathutil.Vec3{height * math.Sin(angleX), height * math.Sin(angleY), height},
		Radius:   1,
	}
	if err := r.host.SetControlPoint(r.name, 0, 1, top); err != nil {
		return PointReference{}, WrapHost("trunk: top point", err)
	}

	if err := r.host.SetStraightHandles(r.name); err != nil {
		return PointReference{}, WrapHost("trunk: handles", err)
	}

	r.log.Debug("trunk built", "height", height, "thickness", thickness, "angle_x", angleX, "angle_y", angleY)
	r.logSplines()

	return PointReference{IsTrunk: true, SplineIndex: 0, PointIndex: 1}, nil
}
