package tree

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
)

// CountFunc returns the number of branches to grow from one tip at a level.
type CountFunc func(rng *rand.Rand, level int) int

// LengthFunc returns a branch length at a level. Called once per branch.
type LengthFunc func(rng *rand.Rand, level int) float64

// RadiusFunc returns the radius ratio of new branch tips at a level.
type RadiusFunc func(rng *rand.Rand, level int) float64

// CountRange draws a count uniformly from [min, max].
func CountRange(min, max int) CountFunc {
	if max < min {
		max = min
	}
	return func(rng *rand.Rand, level int) int {
		return min + rng.IntN(max-min+1)
	}
}

// ConstantCount always grows k branches.
func ConstantCount(k int) CountFunc {
	return func(*rand.Rand, int) int { return k }
}

// LengthFactor returns base * (factor ± random)^level, so deeper branches
// shrink geometrically with some per-branch spread.
func LengthFactor(base, factor, random float64) LengthFunc {
	return func(rng *rand.Rand, level int) float64 {
		return base * math.Pow(factor+uniform(rng, -random, random), float64(level))
	}
}

// ConstantLength ignores the level.
func ConstantLength(length float64) LengthFunc {
	return func(*rand.Rand, int) float64 { return length }
}

// DefaultLength is the fallback branch length.
var DefaultLength = ConstantLength(0.5)

// RadiusLinear tapers from 1 at the trunk to 0 at levelMax.
func RadiusLinear(levelMax int) RadiusFunc {
	return func(_ *rand.Rand, level int) float64 {
		return 1 - float64(level)/float64(levelMax)
	}
}

// RadiusEased tapers from 1 to 0 over levelMax levels following fn.
func RadiusEased(levelMax int, fn ease.TweenFunc) RadiusFunc {
	return func(_ *rand.Rand, level int) float64 {
		return 1 - float64(fn(float32(level), 0, 1, float32(levelMax)))
	}
}

// ConstantRadius ignores the level.
func ConstantRadius(r float64) RadiusFunc {
	return func(*rand.Rand, int) float64 { return r }
}
