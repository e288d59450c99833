package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// fixedSampler returns the same values on every draw
type fixedSampler struct {
	value1D float64
	value2D core.Vec2
}

func (f fixedSampler) Get1D() float64   { return f.value1D }
func (f fixedSampler) Get2D() core.Vec2 { return f.value2D }
func (f fixedSampler) Get3D() core.Vec3 { return core.NewVec3(f.value2D.X, f.value2D.Y, f.value1D) }

// createSquareCamera returns a 2x2 pinhole camera with a 90 degree field of view at focus distance 1
func createSquareCamera() *Camera {
	return NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       2,
		AspectRatio: 1,
		VFov:        90,
	})
}

func TestCamera_ImageHeight(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		aspectRatio float64
		expected    int
	}{
		{"16:9", 400, 16.0 / 9.0, 225},
		{"square", 100, 1.0, 100},
		{"clamped to one row", 1, 16.0 / 9.0, 1},
		{"portrait", 100, 0.5, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			config.Width = tt.width
			config.AspectRatio = tt.aspectRatio
			camera := NewCamera(config)

			if camera.Height() != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, camera.Height())
			}
			if camera.Width() != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, camera.Width())
			}
		})
	}
}

func TestCamera_GetRayThroughPixelCenters(t *testing.T) {
	camera := createSquareCamera()
	centered := fixedSampler{value1D: 0.25, value2D: core.NewVec2(0.5, 0.5)}
	approx := cmpopts.EquateApprox(0, 1e-12)

	tests := []struct {
		name     string
		i, j     int
		expected core.Vec3
	}{
		{"top left", 0, 0, core.NewVec3(-0.5, 0.5, -1)},
		{"top right", 1, 0, core.NewVec3(0.5, 0.5, -1)},
		{"bottom left", 0, 1, core.NewVec3(-0.5, -0.5, -1)},
		{"bottom right", 1, 1, core.NewVec3(0.5, -0.5, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.i, tt.j, centered)

			if diff := cmp.Diff(tt.expected, ray.Direction, approx); diff != "" {
				t.Errorf("direction mismatch (-want +got):\n%s", diff)
			}
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Pinhole camera should shoot from its center, got %v", ray.Origin)
			}
			if ray.Time != 0.25 {
				t.Errorf("Expected ray time from the sampler, got %f", ray.Time)
			}
		})
	}
}

func TestCamera_JitterStaysInsidePixel(t *testing.T) {
	camera := createSquareCamera()
	approx := cmpopts.EquateApprox(0, 1e-12)

	// Offsets of -0.5 and +0.5 reach the pixel corners
	corner := camera.GetRay(0, 0, fixedSampler{value2D: core.NewVec2(0, 0)})
	if diff := cmp.Diff(core.NewVec3(-1, 1, -1), corner.Direction, approx); diff != "" {
		t.Errorf("upper-left corner mismatch (-want +got):\n%s", diff)
	}

	opposite := camera.GetRay(0, 0, fixedSampler{value2D: core.NewVec2(1, 1)})
	if diff := cmp.Diff(core.NewVec3(0, 0, -1), opposite.Direction, approx); diff != "" {
		t.Errorf("lower-right corner mismatch (-want +got):\n%s", diff)
	}
}

func TestCamera_DefocusDisk(t *testing.T) {
	config := createSquareCamera().Config()
	config.DefocusAngle = 10
	config.FocusDistance = 2
	camera := NewCamera(config)

	radius := 2 * math.Tan(core.DegreesToRadians(5))
	sampler := core.NewSeededSampler(42)

	for n := 0; n < 200; n++ {
		ray := camera.GetRay(1, 1, sampler)
		offset := ray.Origin.Subtract(config.Center)

		if offset.Length() > radius+1e-12 {
			t.Fatalf("Lens sample %v outside defocus radius %f", ray.Origin, radius)
		}
		if math.Abs(offset.Z) > 1e-12 {
			t.Fatalf("Lens sample %v should lie in the camera's u-v plane", ray.Origin)
		}
	}
}

func TestCamera_BasisFollowsLookAt(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(5, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       10,
		AspectRatio: 1,
		VFov:        60,
	})

	// The ray through the center of the image points straight ahead
	ray := camera.GetRay(5, 5, fixedSampler{value2D: core.NewVec2(0, 0)})
	if math.Abs(ray.Direction.Normalize().Dot(core.NewVec3(1, 0, 0))-1) > 1e-12 {
		t.Errorf("Expected central ray along +X, got %v", ray.Direction)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	override := CameraConfig{Width: 800, VFov: 20, DefocusAngle: 0.6}

	expected := base
	expected.Width = 800
	expected.VFov = 20
	expected.DefocusAngle = 0.6

	if diff := cmp.Diff(expected, MergeCameraConfig(base, override)); diff != "" {
		t.Errorf("MergeCameraConfig mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(base, MergeCameraConfig(base, CameraConfig{})); diff != "" {
		t.Errorf("Empty override should leave base unchanged (-want +got):\n%s", diff)
	}
}
