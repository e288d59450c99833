package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected color.RGBA
	}{
		{"half, full, zero", core.NewVec3(0.5, 1.0, 0.0), color.RGBA{R: 181, G: 255, B: 0, A: 255}},
		{"black", core.NewVec3(0, 0, 0), color.RGBA{A: 255}},
		{"negative clamps to zero", core.NewVec3(-1, -0.25, 0), color.RGBA{A: 255}},
		{"overbright clamps to 255", core.NewVec3(4, 1.5, 1e9), color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"quarter", core.NewVec3(0.25, 0.25, 0.25), color.RGBA{R: 128, G: 128, B: 128, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Vec3ToColor(tt.input); got != tt.expected {
				t.Errorf("Vec3ToColor(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLinearToGamma(t *testing.T) {
	if LinearToGamma(0.25) != 0.5 {
		t.Errorf("Expected sqrt(0.25) = 0.5, got %f", LinearToGamma(0.25))
	}
	if LinearToGamma(-0.5) != 0 || LinearToGamma(0) != 0 {
		t.Error("Non-positive input should map to 0")
	}
}

func TestRaytracer_RenderPass(t *testing.T) {
	s := createTestScene(t, 32)

	raytracer := NewRaytracer(s, nil)
	raytracer.SetSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 2, MaxDepth: 4})

	img, stats := raytracer.RenderPass()

	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 18 {
		t.Fatalf("Expected 32x18 image, got %v", img.Bounds())
	}
	if stats.TotalPixels != 32*18 || stats.TotalSamples != 2*32*18 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.MinSamples != 2 || stats.MaxSamplesUsed != 2 || stats.AverageSamples != 2 {
		t.Errorf("Every pixel should take exactly 2 samples, got %+v", stats)
	}

	// The top row sees only sky: blue exceeds red
	sky := img.RGBAAt(0, 0)
	if sky.B <= sky.R {
		t.Errorf("Expected sky-blue top-left pixel, got %v", sky)
	}
	if sky.A != 255 {
		t.Errorf("Expected opaque pixels, got alpha %d", sky.A)
	}
}

func TestRaytracer_MergeSamplingConfig(t *testing.T) {
	s := createTestScene(t, 8)
	raytracer := NewRaytracer(s, nil)
	raytracer.SetSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 10, MaxDepth: 20})

	raytracer.MergeSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 3})

	if raytracer.config.SamplesPerPixel != 3 {
		t.Errorf("Expected samples 3, got %d", raytracer.config.SamplesPerPixel)
	}
	if raytracer.config.MaxDepth != 20 {
		t.Errorf("Zero MaxDepth should not override, got %d", raytracer.config.MaxDepth)
	}
}

// TestRaytracer_DepthOneHitsAreBlack renders the reference scene with one bounce:
// every pixel that hits a sphere is black and every other pixel is sky.
func TestRaytracer_DepthOneHitsAreBlack(t *testing.T) {
	s := createTestScene(t, 32)

	raytracer := NewRaytracer(s, nil)
	raytracer.SetSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1})
	img, _ := raytracer.RenderPass()

	black := color.RGBA{A: 255}
	hits := 0
	for y := 0; y < 18; y++ {
		for x := 0; x < 32; x++ {
			c := img.RGBAAt(x, y)
			if c == black {
				hits++
				continue
			}
			// Sky blends white into light blue
			if c.B < c.R || c.B < 200 {
				t.Errorf("Pixel (%d,%d) should be black or sky, got %v", x, y, c)
			}
		}
	}

	if hits == 0 {
		t.Error("Expected some pixels to hit the spheres")
	}
}

func TestRaytracer_NormalIntegrator(t *testing.T) {
	s := createTestScene(t, 16)

	raytracer := NewRaytracer(s, integrator.NewNormalIntegrator(s.Background))
	raytracer.SetSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1})
	img, _ := raytracer.RenderPass()

	// The bottom rows see the top of the ground sphere: normal close to +Y
	c := img.RGBAAt(8, 8)
	if c.G <= c.R || c.G <= c.B {
		t.Errorf("Expected green-dominant ground normal, got %v", c)
	}
}
