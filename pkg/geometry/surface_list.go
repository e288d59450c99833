package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SurfaceList is a flat collection of surfaces tested one by one
type SurfaceList struct {
	Surfaces []Surface
	bbox     core.AABB
}

// NewSurfaceList creates a list holding the given surfaces
func NewSurfaceList(surfaces ...Surface) *SurfaceList {
	list := &SurfaceList{bbox: core.EmptyAABB}
	for _, surface := range surfaces {
		list.Add(surface)
	}
	return list
}

// Add appends a surface and grows the bounding box to enclose it
func (l *SurfaceList) Add(surface Surface) {
	l.Surfaces = append(l.Surfaces, surface)
	l.bbox = core.NewAABBFromBoxes(l.bbox, surface.BoundingBox())
}

// Clear removes every surface
func (l *SurfaceList) Clear() {
	l.Surfaces = nil
	l.bbox = core.EmptyAABB
}

// Len returns the number of surfaces in the list
func (l *SurfaceList) Len() int {
	return len(l.Surfaces)
}

// Hit returns the closest hit over all surfaces
func (l *SurfaceList) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := rayT.Max

	for _, surface := range l.Surfaces {
		if hit, isHit := surface.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all surface boxes
func (l *SurfaceList) BoundingBox() core.AABB {
	return l.bbox
}
