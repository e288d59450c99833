package core

import "math"

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB is a box with every axis interval empty
var EmptyAABB = AABB{X: Empty, Y: Empty, Z: Empty}

// NewAABB creates an AABB from three axis intervals
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABBFromPoints treats a and b as extrema of the box, in either order
func NewAABBFromPoints(a, b Vec3) AABB {
	return AABB{
		X: NewInterval(math.Min(a.X, b.X), math.Max(a.X, b.X)),
		Y: NewInterval(math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)),
		Z: NewInterval(math.Min(a.Z, b.Z), math.Max(a.Z, b.Z)),
	}
}

// NewAABBFromBoxes returns the box enclosing both boxes
func NewAABBFromBoxes(box1, box2 AABB) AABB {
	return AABB{
		X: NewIntervalFromIntervals(box1.X, box2.X),
		Y: NewIntervalFromIntervals(box1.Y, box2.Y),
		Z: NewIntervalFromIntervals(box1.Z, box2.Z),
	}
}

// AxisInterval returns the interval for axis 0 (X), 1 (Y) or 2 (Z).
// Any other index is a programming error and panics.
func (aabb AABB) AxisInterval(n int) Interval {
	switch n {
	case 0:
		return aabb.X
	case 1:
		return aabb.Y
	case 2:
		return aabb.Z
	default:
		panic("core: AABB axis index out of range")
	}
}

// Hit tests if a ray intersects the box within rayT using the slab method.
// A zero direction component yields an infinite inverse, which the comparisons
// below handle without special casing.
func (aabb AABB) Hit(ray Ray, rayT Interval) bool {
	tMin, tMax := rayT.Min, rayT.Max

	for axis := 0; axis < 3; axis++ {
		ax := aabb.AxisInterval(axis)
		origin := ray.Origin.Component(axis)
		invDirection := 1.0 / ray.Direction.Component(axis)

		t0 := (ax.Min - origin) * invDirection
		t1 := (ax.Max - origin) * invDirection

		if t0 < t1 {
			if t0 > tMin {
				tMin = t0
			}
			if t1 < tMax {
				tMax = t1
			}
		} else {
			if t1 > tMin {
				tMin = t1
			}
			if t0 < tMax {
				tMax = t0
			}
		}

		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Center returns the center point of the box
func (aabb AABB) Center() Vec3 {
	return NewVec3(
		(aabb.X.Min+aabb.X.Max)*0.5,
		(aabb.Y.Min+aabb.Y.Max)*0.5,
		(aabb.Z.Min+aabb.Z.Max)*0.5,
	)
}
