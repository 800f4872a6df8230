package config

import (
	"strings"
	"testing"

	"treegen/internal/tree"
)

func TestDefaultPresets(t *testing.T) {
	p := DefaultPresets()
	want := []string{"TreeSphere", "TreeCube", "TreeBushy", "TreeTapered", "Rhododendron"}
	if len(p.Species) != len(want) {
		t.Fatalf("species = %d, want %d", len(p.Species), len(want))
	}
	for i, name := range want {
		if p.Species[i].Name != name {
			t.Errorf("species[%d] = %q, want %q", i, p.Species[i].Name, name)
		}
	}
	if p.Spacing != 10 {
		t.Errorf("spacing = %g", p.Spacing)
	}
	if got := p.Root(2, 3); got[0] != 30 || got[1] != 20 || got[2] != 0 {
		t.Errorf("Root(2, 3) = %v", got)
	}
}

func TestSpeciesBuildValidates(t *testing.T) {
	p := DefaultPresets()
	for _, s := range p.Species {
		for seed := int64(0); seed < 20; seed++ {
			b, err := s.Build(seed)
			if err != nil {
				t.Fatalf("%s seed %d: %v", s.Name, seed, err)
			}
			if err := b.Trunk.Validate(); err != nil {
				t.Errorf("%s: trunk: %v", s.Name, err)
			}
			if err := b.Branch.Validate(); err != nil {
				t.Errorf("%s: branch: %v", s.Name, err)
			}
			for i, fc := range b.Foliage {
				if err := fc.Validate(); err != nil {
					t.Errorf("%s: foliage %d: %v", s.Name, i, err)
				}
			}
			if b.Branch.Levels < s.Branch.LevelsMin || b.Branch.Levels > s.Branch.LevelsMax {
				t.Errorf("%s: levels %d outside [%d, %d]", s.Name, b.Branch.Levels, s.Branch.LevelsMin, s.Branch.LevelsMax)
			}
		}
	}
}

func TestSpeciesBuildDetails(t *testing.T) {
	p := DefaultPresets()

	rh, ok := p.Lookup("Rhododendron")
	if !ok {
		t.Fatal("Rhododendron missing")
	}
	b, err := rh.Build(4)
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "Rhododendron4" || !b.JoinObjects {
		t.Errorf("name %q join %v", b.Name, b.JoinObjects)
	}
	if b.Branch.Levels != 2 || len(b.Foliage) != 2 {
		t.Errorf("levels %d foliage layers %d", b.Branch.Levels, len(b.Foliage))
	}
	red := tree.UVRange{X: 0.157, YMin: 0.655, YMax: 0.955}
	if len(b.Foliage[1].Colours) != 1 || b.Foliage[1].Colours[0] != red {
		t.Errorf("bud colours = %v", b.Foliage[1].Colours)
	}
	if got := rh.MeshNames(); strings.Join(got, ",") != "FoliageRhododendron,FoliageRhododendronBud,FoliageRhododendronFlower" {
		t.Errorf("mesh names = %v", got)
	}

	// Linear taper: 1 at the trunk, 0 at the last level.
	if r := b.Branch.Radius(nil, 0); r != 1 {
		t.Errorf("radius(0) = %g", r)
	}
	if r := b.Branch.Radius(nil, 2); r != 0 {
		t.Errorf("radius(2) = %g", r)
	}

	// TreeBushy keeps the classic linear taper.
	bushy, _ := p.Lookup("TreeBushy")
	if bushy.Branch.Radius.Kind != "linear" {
		t.Errorf("TreeBushy radius kind = %q, want linear", bushy.Branch.Radius.Kind)
	}

	tapered, _ := p.Lookup("TreeTapered")
	tb, err := tapered.Build(0)
	if err != nil {
		t.Fatal(err)
	}
	if tb.Branch.Radius(nil, 1) >= 1-1.0/float64(tb.Branch.Levels) {
		t.Errorf("eased radius(1) = %g, want below the linear taper", tb.Branch.Radius(nil, 1))
	}
	prev := 2.0
	for l := 0; l <= tb.Branch.Levels; l++ {
		r := tb.Branch.Radius(nil, l)
		if r > prev {
			t.Errorf("eased radius not decreasing at level %d: %g > %g", l, r, prev)
		}
		prev = r
	}
}

func TestBuildLevelsDeterministic(t *testing.T) {
	s, _ := DefaultPresets().Lookup("TreeSphere")
	seen := map[int]bool{}
	for seed := int64(0); seed < 50; seed++ {
		a, _ := s.Build(seed)
		b, _ := s.Build(seed)
		if a.Branch.Levels != b.Branch.Levels {
			t.Fatalf("seed %d: levels differ between builds", seed)
		}
		seen[a.Branch.Levels] = true
	}
	if !seen[2] || !seen[3] {
		t.Errorf("levels drawn over 50 seeds = %v, want both 2 and 3", seen)
	}
}

func TestSelect(t *testing.T) {
	p := DefaultPresets()
	all, err := p.Select(nil)
	if err != nil || len(all) != 5 {
		t.Fatalf("Select(nil) = %d, %v", len(all), err)
	}
	two, err := p.Select([]string{"Rhododendron", "TreeCube"})
	if err != nil || len(two) != 2 || two[0].Name != "Rhododendron" {
		t.Fatalf("Select = %v, %v", two, err)
	}
	if _, err := p.Select([]string{"Oak"}); err == nil {
		t.Error("expected error for unknown species")
	}
}

func TestParsePresetsErrors(t *testing.T) {
	base := `
colours:
  brown: {x: 0.4, y_min: 0.8, y_max: 0.9}
species:
  - name: Stick
    trunk: {colours: [%s]}
    branch: {levels_min: 1, levels_max: 2, radius: {kind: %s, ease: %s}}
`
	tests := map[string]string{
		"levels range":        strings.Replace(sprintf3(base, "brown", "linear", "linear"), "levels_max: 2", "levels_max: 0", 1),
		"unknown colour":      sprintf3(base, "green", "linear", "linear"),
		"unknown radius kind": sprintf3(base, "brown", "cubic", "linear"),
		"unknown ease":        sprintf3(base, "brown", "eased", "wobble"),
		"no species":          "spacing: 4\n",
		"bad yaml":            "species: [",
		"duplicate": `
species:
  - name: A
  - name: A
`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePresets([]byte(src)); err == nil {
				t.Error("expected error")
			}
		})
	}

	ok := sprintf3(base, "brown", "eased", "in_out_sine")
	if _, err := ParsePresets([]byte(ok)); err != nil {
		t.Errorf("valid presets rejected: %v", err)
	}
}

func sprintf3(format, a, b, c string) string {
	for _, v := range []string{a, b, c} {
		format = strings.Replace(format, "%s", v, 1)
	}
	return format
}

func TestEaseNames(t *testing.T) {
	names := EaseNames()
	if len(names) == 0 || names[0] != "in_cubic" {
		t.Errorf("EaseNames = %v", names)
	}
}
