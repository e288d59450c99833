package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// NormalIntegrator shades each hit by its surface normal, mapping [-1,1] to [0,1].
// Misses see the background. Useful for checking geometry and camera setup.
type NormalIntegrator struct {
	Background Background
}

// NewNormalIntegrator creates a normal visualization integrator
func NewNormalIntegrator(background Background) *NormalIntegrator {
	return &NormalIntegrator{Background: background}
}

// RayColor returns 0.5*(normal+1) at the closest hit
func (n *NormalIntegrator) RayColor(ray core.Ray, world geometry.Surface, sampler core.Sampler) core.Vec3 {
	hit, isHit := world.Hit(ray, hitInterval)
	if !isHit {
		return n.Background.Color(ray)
	}

	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
