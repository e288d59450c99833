package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
	Background     integrator.Background
	World          *geometry.SurfaceList // Objects in the scene
	BVH            *geometry.BVHNode     // Acceleration structure built by Preprocess
	Seed           int64                 // Seeds BVH construction and per-tile sampling
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// newScene creates an empty scene with the given camera, merging any override on top
func newScene(name string, cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig, cameraOverrides []geometry.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	return &Scene{
		Name:           name,
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		Background:     integrator.DefaultBackground(),
		World:          geometry.NewSurfaceList(),
		Seed:           1,
	}
}

// Add appends surfaces to the scene. The BVH must be rebuilt with Preprocess afterwards.
func (s *Scene) Add(surfaces ...geometry.Surface) {
	for _, surface := range surfaces {
		s.World.Add(surface)
	}
	s.BVH = nil
}

// Preprocess prepares the scene for rendering: rebuilds the camera from CameraConfig
// and builds the BVH over World using a generator seeded from Seed.
func (s *Scene) Preprocess() error {
	if s.CameraConfig.Width <= 0 {
		return fmt.Errorf("scene %q: camera width must be positive, got %d", s.Name, s.CameraConfig.Width)
	}
	if s.CameraConfig.AspectRatio <= 0 {
		return fmt.Errorf("scene %q: aspect ratio must be positive, got %f", s.Name, s.CameraConfig.AspectRatio)
	}
	if s.World == nil {
		s.World = geometry.NewSurfaceList()
	}

	s.Camera = geometry.NewCamera(s.CameraConfig)
	s.BVH = geometry.NewBVH(s.World, rand.New(rand.NewSource(s.Seed)))

	return nil
}

// GetWorld returns the surface rays should be traced against: the BVH once built, otherwise the flat list
func (s *Scene) GetWorld() geometry.Surface {
	if s.BVH != nil {
		return s.BVH
	}
	return s.World
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}

// NewIntegrator returns the path tracer configured with the scene's depth and background
func (s *Scene) NewIntegrator() *integrator.PathTracingIntegrator {
	return integrator.NewPathTracingIntegrator(s.SamplingConfig.MaxDepth, s.Background)
}
