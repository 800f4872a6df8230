package config

import (
	_ "embed"
	"fmt"
	"maps"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"

	"treegen/internal/mathutil"
	"treegen/internal/tree"
)

//go:embed presets.yaml
var defaultPresetsYAML []byte

// levelsStream seeds the draw of a species' level count. It is separate
// from the generator's stream so the tree itself is unaffected.
const levelsStream = 0x6c6576656c73

// Presets is a set of tree species plus named palette colours they share.
type Presets struct {
	Spacing float64                 `yaml:"spacing"`
	Colours map[string]tree.UVRange `yaml:"colours"`
	Species []Species               `yaml:"species"`
}

// Species describes one kind of tree. Build turns it into generator
// configs for a seed.
type Species struct {
	Name        string          `yaml:"name"`
	JoinObjects bool            `yaml:"join_objects"`
	Trunk       TrunkPreset     `yaml:"trunk"`
	Branch      BranchPreset    `yaml:"branch"`
	Foliage     []FoliagePreset `yaml:"foliage"`

	colours map[string]tree.UVRange
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type Jitter struct {
	Ratio  float64 `yaml:"ratio"`
	Offset float64 `yaml:"offset"`
}

type TrunkPreset struct {
	Resolution          int       `yaml:"resolution"`
	Height              Range     `yaml:"height"`
	Thickness           Range     `yaml:"thickness"`
	BaseThicknessFactor float64   `yaml:"base_thickness_factor"`
	AngleRandomMax      []float64 `yaml:"angle_random_max"`
	Randomize           Jitter    `yaml:"randomize"`
	Colours             []string  `yaml:"colours"`
}

type BranchPreset struct {
	HasCentralTrunk bool         `yaml:"has_central_trunk"`
	LevelsMin       int          `yaml:"levels_min"`
	LevelsMax       int          `yaml:"levels_max"`
	AngleRandomMax  []float64    `yaml:"angle_random_max"`
	Count           IntRange     `yaml:"count"`
	Length          LengthPreset `yaml:"length"`
	Radius          RadiusPreset `yaml:"radius"`
	MaxTips         int          `yaml:"max_tips"`
}

// LengthPreset is base * (factor ± random)^level.
type LengthPreset struct {
	Base   float64 `yaml:"base"`
	Factor float64 `yaml:"factor"`
	Random float64 `yaml:"random"`
}

// RadiusPreset selects the taper: "linear", or "eased" with a named
// easing curve (see EaseNames).
type RadiusPreset struct {
	Kind string `yaml:"kind"`
	Ease string `yaml:"ease"`
}

type FoliagePreset struct {
	Meshes         []string  `yaml:"meshes"`
	Scale          Range     `yaml:"scale"`
	Randomize      Jitter    `yaml:"randomize"`
	AngleRandomMax []float64 `yaml:"angle_random_max"`
	Colours        []string  `yaml:"colours"`
}

var easeFuncs = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
}

// ParsePresets decodes and validates YAML presets.
func ParsePresets(data []byte) (*Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("presets: parse: %w", err)
	}
	if len(p.Species) == 0 {
		return nil, fmt.Errorf("presets: no species")
	}
	if p.Spacing <= 0 {
		p.Spacing = 10
	}

	seen := make(map[string]bool)
	for i := range p.Species {
		s := &p.Species[i]
		if s.Name == "" {
			return nil, fmt.Errorf("presets: species %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("presets: duplicate species %q", s.Name)
		}
		seen[s.Name] = true
		s.colours = p.Colours
		if err := s.check(); err != nil {
			return nil, fmt.Errorf("presets: %s: %w", s.Name, err)
		}
	}
	return &p, nil
}

// LoadPresets reads presets from path, or returns DefaultPresets when path
// is empty.
func LoadPresets(path string) (*Presets, error) {
	if path == "" {
		return DefaultPresets(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presets: read %s: %w", path, err)
	}
	return ParsePresets(data)
}

// DefaultPresets returns the built-in species: TreeSphere, TreeCube,
// TreeBushy and Rhododendron as in the classic examples, plus TreeTapered,
// a TreeSphere variant with an eased radius taper.
func DefaultPresets() *Presets {
	p, err := ParsePresets(defaultPresetsYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup returns the species called name.
func (p *Presets) Lookup(name string) (*Species, bool) {
	for i := range p.Species {
		if p.Species[i].Name == name {
			return &p.Species[i], true
		}
	}
	return nil, false
}

// Select returns the named species in order, or all of them when names is
// empty.
func (p *Presets) Select(names []string) ([]*Species, error) {
	if len(names) == 0 {
		out := make([]*Species, len(p.Species))
		for i := range p.Species {
			out[i] = &p.Species[i]
		}
		return out, nil
	}
	out := make([]*Species, 0, len(names))
	for _, n := range names {
		s, ok := p.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("presets: unknown species %q", n)
		}
		out = append(out, s)
	}
	return out, nil
}

// Root returns where a tree of the given species row and seed is planted:
// seeds advance along X, species along Y.
func (p *Presets) Root(row int, seed int64) mathutil.Vec3 {
	return mathutil.Vec3{float64(seed) * p.Spacing, float64(row) * p.Spacing, 0}
}

// Build is the generator input for one tree.
type Build struct {
	Name        string
	JoinObjects bool
	Trunk       tree.TrunkConfig
	Branch      tree.BranchConfig
	Foliage     []tree.FoliageConfig
}

// Build draws the level count for seed and assembles the tree configs.
// The tree is named after the species with the seed appended.
func (s *Species) Build(seed int64) (*Build, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), levelsStream))
	levels := s.Branch.LevelsMin
	if span := s.Branch.LevelsMax - s.Branch.LevelsMin; span > 0 {
		levels += rng.IntN(span + 1)
	}

	trunkColours, err := s.resolveColours(s.Trunk.Colours)
	if err != nil {
		return nil, err
	}
	b := &Build{
		Name:        fmt.Sprintf("%s%d", s.Name, seed),
		JoinObjects: s.JoinObjects,
		Trunk: tree.TrunkConfig{
			Resolution:          s.Trunk.Resolution,
			HeightMin:           s.Trunk.Height.Min,
			HeightMax:           s.Trunk.Height.Max,
			ThicknessMin:        s.Trunk.Thickness.Min,
			ThicknessMax:        s.Trunk.Thickness.Max,
			BaseThicknessFactor: s.Trunk.BaseThicknessFactor,
			AngleRandomMax:      [2]float64(pad(s.Trunk.AngleRandomMax, 2)),
			RandomizeRatio:      s.Trunk.Randomize.Ratio,
			RandomizeOffset:     s.Trunk.Randomize.Offset,
			Colours:             trunkColours,
		},
		Branch: tree.BranchConfig{
			HasCentralTrunk: s.Branch.HasCentralTrunk,
			Levels:          levels,
			AngleRandomMax:  [2]float64(pad(s.Branch.AngleRandomMax, 2)),
			Count:           tree.CountRange(s.Branch.Count.Min, s.Branch.Count.Max),
			Length:          tree.LengthFactor(s.Branch.Length.Base, s.Branch.Length.Factor, s.Branch.Length.Random),
			MaxTips:         s.Branch.MaxTips,
		},
	}

	switch s.Branch.Radius.Kind {
	case "", "linear":
		b.Branch.Radius = tree.RadiusLinear(levels)
	case "eased":
		b.Branch.Radius = tree.RadiusEased(levels, easeFuncs[s.Branch.Radius.Ease])
	}

	for _, fp := range s.Foliage {
		colours, err := s.resolveColours(fp.Colours)
		if err != nil {
			return nil, err
		}
		b.Foliage = append(b.Foliage, tree.FoliageConfig{
			MeshNames:       append([]string(nil), fp.Meshes...),
			ScaleMin:        fp.Scale.Min,
			ScaleMax:        fp.Scale.Max,
			RandomizeRatio:  fp.Randomize.Ratio,
			RandomizeOffset: fp.Randomize.Offset,
			AngleRandomMax:  [3]float64(pad(fp.AngleRandomMax, 3)),
			Colours:         colours,
		})
	}
	return b, nil
}

// MeshNames returns every foliage source mesh the species needs.
func (s *Species) MeshNames() []string {
	var out []string
	seen := make(map[string]bool)
	for _, fp := range s.Foliage {
		for _, m := range fp.Meshes {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// check validates what the tree configs cannot: names, shapes and the
// level range. Numeric ranges are left to the generator.
func (s *Species) check() error {
	if s.Branch.LevelsMin < 0 || s.Branch.LevelsMax < s.Branch.LevelsMin {
		return fmt.Errorf("branch levels [%d, %d] invalid", s.Branch.LevelsMin, s.Branch.LevelsMax)
	}
	switch s.Branch.Radius.Kind {
	case "", "linear":
	case "eased":
		if _, ok := easeFuncs[s.Branch.Radius.Ease]; !ok {
			return fmt.Errorf("unknown ease %q", s.Branch.Radius.Ease)
		}
	default:
		return fmt.Errorf("unknown radius kind %q", s.Branch.Radius.Kind)
	}
	if len(s.Trunk.AngleRandomMax) > 2 || len(s.Branch.AngleRandomMax) > 2 {
		return fmt.Errorf("angle_random_max takes at most 2 values for trunk and branch")
	}
	if _, err := s.resolveColours(s.Trunk.Colours); err != nil {
		return err
	}
	for i, fp := range s.Foliage {
		if len(fp.AngleRandomMax) > 3 {
			return fmt.Errorf("foliage %d: angle_random_max takes at most 3 values", i)
		}
		if _, err := s.resolveColours(fp.Colours); err != nil {
			return fmt.Errorf("foliage %d: %w", i, err)
		}
	}
	return nil
}

func (s *Species) resolveColours(names []string) ([]tree.UVRange, error) {
	out := make([]tree.UVRange, 0, len(names))
	for _, n := range names {
		c, ok := s.colours[n]
		if !ok {
			return nil, fmt.Errorf("unknown colour %q", n)
		}
		out = append(out, c)
	}
	return out, nil
}

// pad copies v into a slice of length n, zero filled.
func pad(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}

// EaseNames lists the easing curves accepted by radius.ease.
func EaseNames() []string {
	return slices.Sorted(maps.Keys(easeFuncs))
}
