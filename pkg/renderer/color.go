package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// intensity keeps 256*x below 256 so the byte conversion never wraps
var intensity = core.NewInterval(0.0, 0.999)

// LinearToGamma applies gamma 2 to a linear color component. Non-positive input maps to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// componentToByte gamma-corrects, clamps and scales a component to [0,255]
func componentToByte(linear float64) uint8 {
	return uint8(256 * intensity.Clamp(LinearToGamma(linear)))
}

// Vec3ToColor converts a linear Vec3 color to an opaque RGBA pixel
func Vec3ToColor(colorVec core.Vec3) color.RGBA {
	return color.RGBA{
		R: componentToByte(colorVec.X),
		G: componentToByte(colorVec.Y),
		B: componentToByte(colorVec.Z),
		A: 255,
	}
}
