package raster

import (
	"math"

	"treegen/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in
// screen space (X right, Y down, Z towards the viewer).
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig is a soft key light from the upper left with a cool
// rim from behind. Specular is kept low; foliage is matte.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{-0.45, -0.7, 0.55}.Normalize()
	rimDir := mathutil.Vec3{0.6, -0.3, -0.75}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	halfMain := lightDir.Add(viewDir).Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  halfMain,
		Ambient:   0.45,
		Hemi:      0.45,
		Direct:    1.35,
		Rim:       0.35,
		SpecInt:   0.12,
		SpecPow:   8.0,
		Exposure:  1.0,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
// Faces are lit double-sided.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill: faces turned up or down catch the most sky
	hemi := math.Abs(normal[1])*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := math.Abs(normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
