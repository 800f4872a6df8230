package tree

import (
	"fmt"

	"treegen/internal/mathutil"
)

// FoliageName is the object name of the index-th foliage layer of a tree.
func FoliageName(tree string, index int) string {
	return fmt.Sprintf("%sFoliage%d", tree, index)
}

// makeFoliage builds one aggregate mesh holding a randomly picked, scaled,
// rotated and jittered copy of a source mesh at every tip.
func (r *run) makeFoliage(foliageName string, tips []PointReference, cfg FoliageConfig) error {
	r.log.Debug("make foliage", "name", foliageName, "tips", len(tips), "meshes", cfg.MeshNames)

	if err := r.host.Delete(foliageName); err != nil {
		return WrapHost(fmt.Sprintf("foliage: delete %q", foliageName), err)
	}
	if err := r.host.CreateEmptyMesh(foliageName, r.root); err != nil {
		return WrapHost(fmt.Sprintf("foliage: create %q", foliageName), err)
	}

	for i, tip := range tips {
		if err := r.placeFoliage(foliageName, i, tip, cfg); err != nil {
			return err
		}
	}

	if err := r.host.ShadeFlat(foliageName); err != nil {
		return WrapHost("foliage: shade flat", err)
	}
	return nil
}

func (r *run) placeFoliage(foliageName string, i int, tip PointReference, cfg FoliageConfig) error {
	cp, err := r.host.ControlPoint(r.name, tip.SplineIndex, tip.PointIndex)
	if err != nil {
		return WrapHost(fmt.Sprintf("foliage: read %s", tip), err)
	}

	source := cfg.MeshNames[r.rng.IntN(len(cfg.MeshNames))]
	origin, err := r.host.Origin(source)
	if err != nil {
		return WrapHost(fmt.Sprintf("foliage: source mesh %q", source), err)
	}
	// Source meshes carry their own origin; move by the difference.
	translate := r.root.Sub(origin).Add(cp.Position)
	scale := uniform(r.rng, cfg.ScaleMin, cfg.ScaleMax)

	piece := fmt.Sprintf("%sPiece%d", foliageName, i)
	// A failed earlier run may have left the piece behind.
	if err := r.host.Delete(piece); err != nil {
		return WrapHost(fmt.Sprintf("foliage: delete %q", piece), err)
	}
	if err := r.host.Duplicate(source, piece, translate); err != nil {
		return WrapHost(fmt.Sprintf("foliage: duplicate %q", source), err)
	}
	if err := r.host.Scale(piece, mathutil.Vec3{scale, scale, scale}); err != nil {
		return WrapHost("foliage: scale", err)
	}

	rotation := mathutil.Vec3{
		uniform(r.rng, -cfg.AngleRandomMax[0], cfg.AngleRandomMax[0]),
		uniform(r.rng, -cfg.AngleRandomMax[1], cfg.AngleRandomMax[1]),
		uniform(r.rng, -cfg.AngleRandomMax[2], cfg.AngleRandomMax[2]),
	}
	if err := r.host.Rotate(piece, rotation); err != nil {
		return WrapHost("foliage: rotate", err)
	}

	jitterSeed := uint64(r.rng.IntN(100))
	if err := r.host.RandomizeVertices(piece, jitterSeed, cfg.RandomizeRatio, cfg.RandomizeOffset); err != nil {
		return WrapHost("foliage: randomize", err)
	}

	uv := cfg.Colours[r.rng.IntN(len(cfg.Colours))].Random(r.rng)
	if err := r.host.SetUniformUV(piece, uv); err != nil {
		return WrapHost("foliage: uv", err)
	}

	if err := r.host.Merge(foliageName, piece); err != nil {
		return WrapHost(fmt.Sprintf("foliage: merge %q", piece), err)
	}
	return nil
}
