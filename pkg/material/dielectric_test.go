package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDielectric_AttenuationAlwaysWhite(t *testing.T) {
	glass := NewDielectric(1.5)
	white := core.NewVec3(1, 1, 1)
	sampler := core.NewSeededSampler(42)

	directions := []core.Vec3{
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(1, -0.05, 0),
		core.NewVec3(-0.3, -1, 0.7),
	}

	for _, frontFace := range []bool{true, false} {
		for _, dir := range directions {
			hit := upHit(glass)
			hit.FrontFace = frontFace
			rayIn := core.NewRay(core.NewVec3(0, 1, 0), dir)

			for i := 0; i < 200; i++ {
				result, scattered := glass.Scatter(rayIn, hit, sampler)
				if !scattered {
					t.Fatal("Dielectric should always scatter")
				}
				if !result.Attenuation.Equals(white) {
					t.Fatalf("Expected attenuation %v, got %v", white, result.Attenuation)
				}
			}
		}
	}
}

func TestDielectric_ReflectOrRefractByDraw(t *testing.T) {
	glass := NewDielectric(1.5)
	hit := upHit(glass)
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0))

	// A draw of 0 is below any positive reflectance: reflect
	reflected, _ := glass.Scatter(rayIn, hit, fixedSampler{value1D: 0})
	if reflected.Scattered.Direction.Y <= 0 {
		t.Errorf("Expected reflection above surface, got %v", reflected.Scattered.Direction)
	}
	expected := core.NewVec3(1, 1, 0).Normalize()
	if reflected.Scattered.Direction.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Expected mirror direction %v, got %v", expected, reflected.Scattered.Direction)
	}

	// A draw close to 1 exceeds the reflectance: refract, bending toward the normal
	refracted, _ := glass.Scatter(rayIn, hit, fixedSampler{value1D: 0.999})
	dir := refracted.Scattered.Direction.Normalize()
	if dir.Y >= 0 {
		t.Fatalf("Expected refraction below surface, got %v", dir)
	}
	sinIn := math.Sqrt(0.5)
	sinOut := math.Abs(dir.X)
	if math.Abs(sinOut-sinIn/1.5) > 1e-9 {
		t.Errorf("Snell's law violated: sin out %f, want %f", sinOut, sinIn/1.5)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	hit := upHit(glass)
	hit.FrontFace = false // leaving the glass

	rayIn := core.NewRay(core.NewVec3(-1, 0.2, 0), core.NewVec3(1, -0.2, 0))

	// Even a draw that would normally refract must reflect
	result, _ := glass.Scatter(rayIn, hit, fixedSampler{value1D: 0.999})
	if result.Scattered.Direction.Y <= 0 {
		t.Errorf("Expected total internal reflection, got %v", result.Scattered.Direction)
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence for glass: ((1-1.5)/(1+1.5))^2 = 0.04
	if got := Reflectance(1.0, 1.5); math.Abs(got-0.04) > 1e-12 {
		t.Errorf("Expected R0 0.04, got %f", got)
	}
	// Grazing incidence reflects everything
	if got := Reflectance(0.0, 1.5); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Expected reflectance 1 at grazing angle, got %f", got)
	}
	if Reflectance(0.5, 1.0/1.5) <= Reflectance(0.9, 1.0/1.5) {
		t.Error("Reflectance should increase as the angle becomes more grazing")
	}
}
