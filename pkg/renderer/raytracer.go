package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Raytracer is the single-threaded reference renderer
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	config     scene.SamplingConfig
	integrator integrator.Integrator // nil: path tracer built from config
	sampler    core.Sampler
}

// NewRaytracer creates a new raytracer for a preprocessed scene.
// A nil integrator selects a path tracer limited to the configured MaxDepth.
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:      s,
		width:      s.Camera.Width(),
		height:     s.Camera.Height(),
		config:     s.SamplingConfig,
		integrator: integratorInst,
		sampler:    core.NewSeededSampler(s.Seed),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config scene.SamplingConfig) {
	rt.config = config
}

// MergeSamplingConfig applies the non-zero fields of updates to the sampling configuration
func (rt *Raytracer) MergeSamplingConfig(updates scene.SamplingConfig) {
	if updates.SamplesPerPixel != 0 {
		rt.config.SamplesPerPixel = updates.SamplesPerPixel
	}
	if updates.MaxDepth != 0 {
		rt.config.MaxDepth = updates.MaxDepth
	}
}

// RenderPass renders the full image with SamplesPerPixel samples per pixel.
// Each call starts from fresh pixel accumulators.
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	pixelStats := newPixelStatsGrid(rt.width, rt.height)
	bounds := image.Rect(0, 0, rt.width, rt.height)

	integratorInst := rt.integrator
	if integratorInst == nil {
		integratorInst = integrator.NewPathTracingIntegrator(rt.config.MaxDepth, rt.scene.Background)
	}
	tileRenderer := NewTileRenderer(rt.scene.Camera, rt.scene.GetWorld(), integratorInst)

	stats := tileRenderer.RenderTileBounds(bounds, pixelStats, rt.sampler, rt.config.SamplesPerPixel)

	return assembleImage(pixelStats, rt.width, rt.height), stats
}

// newPixelStatsGrid allocates per-pixel accumulators indexed [y][x]
func newPixelStatsGrid(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

// assembleImage converts averaged pixel colors to an RGBA image
func assembleImage(pixelStats [][]PixelStats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, Vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}
	return img
}
