package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// PathTracingIntegrator implements unidirectional path tracing with a fixed bounce limit
type PathTracingIntegrator struct {
	MaxDepth   int
	Background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		MaxDepth:   maxDepth,
		Background: background,
	}
}

// RayColor traces a camera ray with the configured bounce limit
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Surface, sampler core.Sampler) core.Vec3 {
	return pt.ColorRay(ray, pt.MaxDepth, world, sampler)
}

// ColorRay returns the radiance along ray with depth bounces remaining.
// A hit that scatters contributes its attenuation times the color of the scattered ray;
// an absorbed ray or an exhausted depth is black; a miss sees the background.
func (pt *PathTracingIntegrator) ColorRay(ray core.Ray, depth int, world geometry.Surface, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, hitInterval)
	if !isHit {
		return pt.Background.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(pt.ColorRay(scatter.Scattered, depth-1, world, sampler))
}
