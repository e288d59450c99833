package geometry

import (
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is an interior node of a Bounding Volume Hierarchy.
// Each node owns two child surfaces, which are either leaf primitives or nested nodes,
// and caches the union of their bounding boxes. Nodes are immutable once built.
type BVHNode struct {
	Left  Surface
	Right Surface
	bbox  core.AABB
}

// NewBVH builds a hierarchy over the surfaces of list.
// The list itself is left untouched; construction sorts a private copy.
func NewBVH(list *SurfaceList, random *rand.Rand) *BVHNode {
	if list.Len() == 0 {
		empty := NewSurfaceList()
		return &BVHNode{Left: empty, Right: empty, bbox: core.EmptyAABB}
	}

	surfaces := make([]Surface, list.Len())
	copy(surfaces, list.Surfaces)

	return NewBVHNode(surfaces, 0, len(surfaces), random)
}

// NewBVHNode recursively partitions surfaces[start:end] into a binary tree.
// The range is reordered in place. Each level sorts along a random axis chosen
// with random, so a fixed seed reproduces the same tree.
func NewBVHNode(surfaces []Surface, start, end int, random *rand.Rand) *BVHNode {
	if end-start < 1 {
		panic("geometry: BVH node over an empty range")
	}

	axis := random.Intn(3)
	node := &BVHNode{}

	switch span := end - start; span {
	case 1:
		// Both children alias the one surface
		node.Left = surfaces[start]
		node.Right = surfaces[start]
	case 2:
		node.Left = surfaces[start]
		node.Right = surfaces[start+1]
	default:
		sortSurfacesByAxis(surfaces[start:end], axis)

		mid := start + span/2
		node.Left = NewBVHNode(surfaces, start, mid, random)
		node.Right = NewBVHNode(surfaces, mid, end, random)
	}

	node.bbox = core.NewAABBFromBoxes(node.Left.BoundingBox(), node.Right.BoundingBox())
	return node
}

// sortSurfacesByAxis sorts surfaces by the minimum of their bounding box along the axis
func sortSurfacesByAxis(surfaces []Surface, axis int) {
	sort.Slice(surfaces, func(i, j int) bool {
		return surfaces[i].BoundingBox().AxisInterval(axis).Min <
			surfaces[j].BoundingBox().AxisInterval(axis).Min
	})
}

// Hit tests the left subtree first, then searches the right subtree only for
// hits closer than the left one. Intervals are open, so an exact tie in t keeps the left hit.
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	if !n.bbox.Hit(ray, rayT) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, rayT)
	if hitLeft {
		rayT = core.NewInterval(rayT.Min, leftHit.T)
	}

	if rightHit, hitRight := n.Right.Hit(ray, rayT); hitRight {
		return rightHit, true
	}

	return leftHit, hitLeft
}

// BoundingBox returns the union of both children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes int     // Interior nodes
	Leaves     int     // Leaf references (an aliased single-surface node counts twice)
	MaxDepth   int     // Depth of the deepest interior node, root is 0
	AvgDepth   float64 // Average depth of interior nodes whose children are both leaves
}

// Stats walks the tree and collects structural statistics
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	bottomNodes := 0
	n.collectStats(0, &stats, &bottomNodes)

	if bottomNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(bottomNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *BVHNode) collectStats(depth int, stats *BVHStats, bottomNodes *int) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	interior := 0
	for _, child := range []Surface{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			interior++
			node.collectStats(depth+1, stats, bottomNodes)
		} else {
			stats.Leaves++
		}
	}

	if interior == 0 {
		*bottomNodes++
		stats.AvgDepth += float64(depth)
	}
}
