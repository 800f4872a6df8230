package tree

import (
	"fmt"
	"math"

	"treegen/internal/mathutil"
)

// extendTrunk grows the trunk straight up from tip.
func (r *run) extendTrunk(level int, tip PointReference, length LengthFunc, radius RadiusFunc) (PointReference, error) {
	l := length(r.rng, level)

	cp, err := r.host.ControlPoint(r.name, tip.SplineIndex, tip.PointIndex)
	if err != nil {
		return PointReference{}, WrapHost(fmt.Sprintf("extend trunk: read %s", tip), err)
	}

	location := r.root.Add(cp.Position).Add(mathutil.Vec3{0, 0, l})
	idx, err := r.host.AppendPoint(r.name, tip.SplineIndex, location)
	if err != nil {
		return PointReference{}, WrapHost(fmt.Sprintf("extend trunk: append to spline %d", tip.SplineIndex), err)
	}

	if err := r.setRadius(tip.SplineIndex, idx, radius(r.rng, level)); err != nil {
		return PointReference{}, err
	}

	return PointReference{IsTrunk: true, SplineIndex: tip.SplineIndex, PointIndex: idx}, nil
}

// makeBranches grows one level from tip: an optional trunk continuation
// followed by count branches spread evenly around a random twist.
func (r *run) makeBranches(level int, tip PointReference, cfg BranchConfig) ([]PointReference, error) {
	count := cfg.Count(r.rng, level)
	radius := cfg.Radius(r.rng, level)
	r.log.Debug("make branches", "level", level, "tip", tip.String(), "count", count, "radius", radius)

	var tips []PointReference

	if tip.IsTrunk && cfg.HasCentralTrunk {
		top, err := r.extendTrunk(level, tip, cfg.Length, cfg.Radius)
		if err != nil {
			return nil, err
		}
		tips = append(tips, top)
	}

	twist := uniform(r.rng, 0, 2*math.Pi)

	for i := 0; i < count; i++ {
		length := cfg.Length(r.rng, level)

		spline, point, err := r.host.SplitAt(r.name, tip.SplineIndex, tip.PointIndex)
		if err != nil {
			return nil, WrapHost(fmt.Sprintf("branch %d: split at %s", i, tip), err)
		}
		base, err := r.host.ControlPoint(r.name, spline, point)
		if err != nil {
			return nil, WrapHost(fmt.Sprintf("branch %d: read split point", i), err)
		}

		rotZ := float64(i)/float64(count)*2*math.Pi + twist
		rotZ += uniform(r.rng, -cfg.AngleRandomMax[1], cfg.AngleRandomMax[1])
		rotY := uniform(r.rng, 0, cfg.AngleRandomMax[0])
		offset := mathutil.Vec3{length, 0, 0}.RotateEuler(mathutil.Vec3{0, -rotY, rotZ})

		location := r.root.Add(base.Position).Add(offset)
		idx, err := r.host.AppendPoint(r.name, spline, location)
		if err != nil {
			return nil, WrapHost(fmt.Sprintf("branch %d: append to spline %d", i, spline), err)
		}
		if err := r.setRadius(spline, idx, radius); err != nil {
			return nil, err
		}

		tips = append(tips, PointReference{SplineIndex: spline, PointIndex: idx})
	}

	r.logSplines()
	return tips, nil
}

// growBranches runs makeBranches level by level, breadth first, and returns
// the tips of the last level in the order they were produced.
func (r *run) growBranches(cfg BranchConfig, trunkTip PointReference) ([]PointReference, error) {
	tips := []PointReference{trunkTip}
	limit := cfg.maxTips()

	for level := 1; level <= cfg.Levels; level++ {
		var next []PointReference
		for _, tip := range tips {
			grown, err := r.makeBranches(level, tip, cfg)
			if err != nil {
				return nil, err
			}
			next = append(next, grown...)
			if len(next) > limit {
				return nil, Configurationf("branch: level %d exceeds %d tips", level, limit)
			}
		}
		tips = next
		r.log.Debug("level grown", "level", level, "tips", len(tips))
	}

	return tips, nil
}

func (r *run) setRadius(spline, point int, radius float64) error {
	cp, err := r.host.ControlPoint(r.name, spline, point)
	if err != nil {
		return WrapHost(fmt.Sprintf("radius: read [%d:%d]", spline, point), err)
	}
	cp.Radius = radius
	if err := r.host.SetControlPoint(r.name, spline, point, cp); err != nil {
		return WrapHost(fmt.Sprintf("radius: write [%d:%d]", spline, point), err)
	}
	return nil
}
