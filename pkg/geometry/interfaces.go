package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Surface interface for objects that can be hit by rays
type Surface interface {
	// Hit returns the intersection with the smallest t strictly inside rayT, if any
	Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool)
	// BoundingBox returns a box enclosing the surface over the whole ray time range
	BoundingBox() core.AABB
}
