package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"three-spheres scene", "three-spheres", false},
		{"random-spheres scene", "random-spheres", false},
		{"checkered-spheres scene", "checkered-spheres", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType, 0, 0)

			if tt.expectError {
				if !errors.Is(err, scene.ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for scene type '%s', got %v", tt.sceneType, err)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.CameraConfig.Width <= 0 {
				t.Errorf("Scene camera width should be positive, got %d", s.CameraConfig.Width)
			}
			if s.Camera.Height() <= 0 {
				t.Errorf("Scene camera height should be positive, got %d", s.Camera.Height())
			}
			if s.BVH == nil {
				t.Error("Scene should be preprocessed")
			}
		})
	}
}

func TestCreateScene_Overrides(t *testing.T) {
	s, err := createScene("three-spheres", 64, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.Camera.Width() != 64 || s.Camera.Height() != 36 {
		t.Errorf("Expected 64x36 camera, got %dx%d", s.Camera.Width(), s.Camera.Height())
	}
	if s.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", s.Seed)
	}
}

func TestCreateScene_SeedDrivesRandomLayout(t *testing.T) {
	seeded, err := createScene("random-spheres", 32, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	unseeded, err := createScene("random-spheres", 32, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := scene.NewRandomSpheresScene(7)
	if seeded.GetPrimitiveCount() != want.GetPrimitiveCount() {
		t.Fatalf("Expected %d spheres for seed 7, got %d", want.GetPrimitiveCount(), seeded.GetPrimitiveCount())
	}
	for i := range want.World.Surfaces {
		if seeded.World.Surfaces[i].BoundingBox() != want.World.Surfaces[i].BoundingBox() {
			t.Fatalf("Sphere %d does not follow the seed 7 layout", i)
		}
	}

	same := seeded.GetPrimitiveCount() == unseeded.GetPrimitiveCount()
	for i := 0; same && i < seeded.GetPrimitiveCount(); i++ {
		same = seeded.World.Surfaces[i].BoundingBox() == unseeded.World.Surfaces[i].BoundingBox()
	}
	if same {
		t.Error("Seed 7 should lay out spheres differently from the default seed")
	}
}

func TestBVHSummary(t *testing.T) {
	summary := bvhSummary(geometry.BVHStats{TotalNodes: 3, Leaves: 4, MaxDepth: 1, AvgDepth: 1})
	want := "BVH: 3 nodes, 4 leaves, max depth 1, average leaf depth 1.0"
	if summary != want {
		t.Errorf("bvhSummary() = %q, want %q", summary, want)
	}
}

func TestRenderCaption(t *testing.T) {
	s, err := createScene("three-spheres", 32, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := renderer.PassResult{Stats: renderer.RenderStats{AverageSamples: 16}}
	caption := renderCaption(s, result, 1500*time.Millisecond)

	for _, want := range []string{"three-spheres", "16 spp", "3 primitives", "1.5s"} {
		if !strings.Contains(caption, want) {
			t.Errorf("Caption %q should contain %q", caption, want)
		}
	}
}
