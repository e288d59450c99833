package renderer

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Empty pixel should be black, got %v", ps.GetColor())
	}

	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if !ps.GetColor().Equals(core.NewVec3(0.5, 0.5, 0)) {
		t.Errorf("Expected average (0.5,0.5,0), got %v", ps.GetColor())
	}
}

func TestRenderStats(t *testing.T) {
	tests := []struct {
		name     string
		target   int
		samples  []int
		expected RenderStats
	}{
		{
			name:    "uniform",
			target:  4,
			samples: []int{4, 4, 4, 4},
			expected: RenderStats{
				TotalPixels: 4, TotalSamples: 16, AverageSamples: 4,
				MaxSamples: 4, MinSamples: 4, MaxSamplesUsed: 4,
			},
		},
		{
			name:    "already sampled pixels",
			target:  8,
			samples: []int{0, 8, 2, 6},
			expected: RenderStats{
				TotalPixels: 4, TotalSamples: 16, AverageSamples: 4,
				MaxSamples: 8, MinSamples: 0, MaxSamplesUsed: 8,
			},
		},
		{
			name:     "no pixels",
			target:   3,
			expected: RenderStats{MaxSamples: 3, MinSamples: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := newRenderStats(len(tt.samples), tt.target)
			for _, s := range tt.samples {
				stats.update(s)
			}
			stats.finalize()

			if diff := cmp.Diff(tt.expected, stats); diff != "" {
				t.Errorf("RenderStats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
