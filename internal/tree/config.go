package tree

// DefaultMaxTips caps the number of tips a single level may produce when
// BranchConfig.MaxTips is zero.
const DefaultMaxTips = 4096

// TrunkConfig controls the first trunk segment and the finished
// trunk/branch mesh.
type TrunkConfig struct {
	Resolution          int        // cross-section rounding; 0 gives square branches
	HeightMin           float64    // shortest trunk
	HeightMax           float64    // trunk height is drawn from [HeightMin, HeightMax]
	ThicknessMin        float64    // thinnest cross-section
	ThicknessMax        float64    // cross-section thickness is drawn from [ThicknessMin, ThicknessMax]
	BaseThicknessFactor float64    // radius of the very base relative to the thickness
	AngleRandomMax      [2]float64 // lean of the first segment within ±X, ±Y
	RandomizeRatio      float64    // fraction of mesh vertices jittered after conversion
	RandomizeOffset     float64    // maximum jitter per axis
	Colours             []UVRange  // one range is picked for the whole mesh
}

// Validate rejects malformed ranges before anything is built.
func (c TrunkConfig) Validate() error {
	switch {
	case c.Resolution < 0:
		return Configurationf("trunk: resolution %d < 0", c.Resolution)
	case c.HeightMin <= 0 || c.HeightMin > c.HeightMax:
		return Configurationf("trunk: height range [%g, %g] invalid", c.HeightMin, c.HeightMax)
	case c.ThicknessMin <= 0 || c.ThicknessMin > c.ThicknessMax:
		return Configurationf("trunk: thickness range [%g, %g] invalid", c.ThicknessMin, c.ThicknessMax)
	case c.BaseThicknessFactor <= 0:
		return Configurationf("trunk: base thickness factor %g <= 0", c.BaseThicknessFactor)
	case c.AngleRandomMax[0] < 0 || c.AngleRandomMax[1] < 0:
		return Configurationf("trunk: negative angle_random_max %v", c.AngleRandomMax)
	}
	if err := validateJitter("trunk", c.RandomizeRatio, c.RandomizeOffset); err != nil {
		return err
	}
	return validateColours("trunk", c.Colours)
}

// BranchConfig controls recursive branch growth.
//
// AngleRandomMax[0] bounds the upward tilt of each branch (drawn from
// [0, A]); AngleRandomMax[1] bounds the jitter around the Z axis
// (drawn from [-B, B]).
type BranchConfig struct {
	HasCentralTrunk bool
	Levels          int
	AngleRandomMax  [2]float64
	Count           CountFunc  // called once per tip per level
	Length          LengthFunc // called once per branch
	Radius          RadiusFunc // called once per tip per level
	MaxTips         int        // growth cap per level; 0 means DefaultMaxTips
}

// Validate rejects malformed ranges before anything is built.
func (c BranchConfig) Validate() error {
	switch {
	case c.Levels < 0:
		return Configurationf("branch: levels %d < 0", c.Levels)
	case c.AngleRandomMax[0] < 0 || c.AngleRandomMax[1] < 0:
		return Configurationf("branch: negative angle_random_max %v", c.AngleRandomMax)
	case c.MaxTips < 0:
		return Configurationf("branch: max tips %d < 0", c.MaxTips)
	case c.Levels > 0 && (c.Count == nil || c.Length == nil || c.Radius == nil):
		return Configurationf("branch: count, length and radius functions are required")
	}
	return nil
}

func (c BranchConfig) maxTips() int {
	if c.MaxTips > 0 {
		return c.MaxTips
	}
	return DefaultMaxTips
}

// FoliageConfig controls one layer of foliage meshes placed at every tip.
type FoliageConfig struct {
	MeshNames       []string   // source meshes, one picked per tip
	ScaleMin        float64    // smallest piece scale
	ScaleMax        float64    // isotropic scale drawn from [ScaleMin, ScaleMax]
	RandomizeRatio  float64    // fraction of vertices jittered per piece
	RandomizeOffset float64    // maximum jitter per axis
	AngleRandomMax  [3]float64 // rotation within ±X, ±Y, ±Z
	Colours         []UVRange  // one range is picked per piece
}

// Validate rejects malformed ranges before anything is built.
func (c FoliageConfig) Validate() error {
	if len(c.MeshNames) == 0 {
		return Configurationf("foliage: mesh names must not be empty")
	}
	for _, n := range c.MeshNames {
		if n == "" {
			return Configurationf("foliage: empty mesh name")
		}
	}
	if c.ScaleMin <= 0 || c.ScaleMin > c.ScaleMax {
		return Configurationf("foliage: scale range [%g, %g] invalid", c.ScaleMin, c.ScaleMax)
	}
	for _, a := range c.AngleRandomMax {
		if a < 0 {
			return Configurationf("foliage: negative angle_random_max %v", c.AngleRandomMax)
		}
	}
	if err := validateJitter("foliage", c.RandomizeRatio, c.RandomizeOffset); err != nil {
		return err
	}
	return validateColours("foliage", c.Colours)
}

func validateJitter(what string, ratio, offset float64) error {
	if ratio < 0 || ratio > 1 {
		return Configurationf("%s: randomize ratio %g outside [0, 1]", what, ratio)
	}
	if offset < 0 {
		return Configurationf("%s: randomize offset %g < 0", what, offset)
	}
	return nil
}

func validateColours(what string, colours []UVRange) error {
	if len(colours) == 0 {
		return Configurationf("%s: colours must not be empty", what)
	}
	for _, c := range colours {
		if err := c.validate(); err != nil {
			return Configurationf("%s: %v", what, err)
		}
	}
	return nil
}
