package tree

import "math/rand/v2"

// UVRange samples a palette coordinate: fixed U, random V in [YMin, YMax].
// The palette texture is a set of vertical gradients, so X picks the hue
// column and the V draw picks a shade within it.
type UVRange struct {
	X    float64 `yaml:"x" json:"x"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
}

// Random returns (X, Uniform(YMin, YMax)).
func (r UVRange) Random(rng *rand.Rand) [2]float64 {
	return [2]float64{r.X, uniform(rng, r.YMin, r.YMax)}
}

func (r UVRange) validate() error {
	if r.YMin > r.YMax {
		return Configurationf("uv range: y_min %g > y_max %g", r.YMin, r.YMax)
	}
	return nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
