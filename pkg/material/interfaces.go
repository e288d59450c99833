package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Material interface for surfaces that scatter rays.
// Implementations hold no per-hit state, so one instance can be shared by any
// number of surfaces and read concurrently during a render.
type Material interface {
	// Scatter returns the scattered ray and its attenuation, or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	UV        core.Vec2 // Surface coordinates for texture lookup
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// NewHitRecord builds a hit record at parameter t, orienting the normal against the ray.
// outwardNormal is assumed to have unit length.
func NewHitRecord(ray core.Ray, t float64, outwardNormal core.Vec3, uv core.Vec2, mat Material) *HitRecord {
	hit := &HitRecord{
		Point:    ray.At(t),
		T:        t,
		UV:       uv,
		Material: mat,
	}
	hit.SetFaceNormal(ray, outwardNormal)
	return hit
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
