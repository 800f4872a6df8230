package tree

import "fmt"

const (
	// WeldThreshold is the distance below which converted vertices merge.
	WeldThreshold = 0.001
	// PaletteMaterial is the material every tree mesh samples its colours from.
	PaletteMaterial = "GradientPaletteFlat"
)

// finalizeMesh converts the skeleton into a mesh, welds it, jitters the
// vertices and paints every face with one palette coordinate.
func (r *run) finalizeMesh(cfg TrunkConfig) error {
	steps := []struct {
		what string
		fn   func() error
	}{
		{"shade flat", func() error { return r.host.ShadeFlat(r.name) }},
		{"convert", func() error { return r.host.ConvertToMesh(r.name) }},
		{"weld", func() error { return r.host.WeldVertices(r.name, WeldThreshold) }},
		{"material", func() error { return r.host.AssignMaterial(r.name, PaletteMaterial) }},
		{"randomize", func() error {
			return r.host.RandomizeVertices(r.name, uint64(r.seed), cfg.RandomizeRatio, cfg.RandomizeOffset)
		}},
		{"uv", func() error {
			uv := cfg.Colours[r.rng.IntN(len(cfg.Colours))].Random(r.rng)
			return r.host.SetUniformUV(r.name, uv)
		}},
	}

	for _, s := range steps {
		if err := s.fn(); err != nil {
			return WrapHost(fmt.Sprintf("finalize %q: %s", r.name, s.what), err)
		}
	}
	return nil
}
