package batch

import (
	"math"
	"sort"
)

// SpatialGroup is a cluster of renderables sharing one z-layer whose
// bounding-box centers lie close together.
type SpatialGroup struct {
	ZIndex int
	Items  []Renderable
	Bounds Rect
}

// SpatialStats accumulates grouping statistics across passes.
type SpatialStats struct {
	TotalGroups          int
	TotalItems           int
	AverageItemsPerGroup float64
}

// SpatialGrouper clusters renderables by z-layer and spatial proximity,
// independent of draw-state keys. It exists for optimization passes
// (culling, locality-aware ordering); visibility filtering is a
// rendering concern, so invisible items are grouped like any other.
//
// Clustering uses a uniform grid with cells the size of the radius:
// items are bucketed by cell, then united with neighbors in the 3x3
// surrounding cells whose centers fall within the radius. This keeps the
// pass near linear instead of comparing all pairs.
type SpatialGrouper struct {
	radius float64
	stats  SpatialStats
}

// NewSpatialGrouper creates a grouper with the given clustering radius
// in pixels. A non-positive radius uses DefaultClusterRadius.
func NewSpatialGrouper(radius float64) *SpatialGrouper {
	if radius <= 0 {
		radius = DefaultClusterRadius
	}
	return &SpatialGrouper{radius: radius}
}

// Radius returns the clustering radius.
func (s *SpatialGrouper) Radius() float64 { return s.radius }

// Stats returns accumulated statistics.
func (s *SpatialGrouper) Stats() SpatialStats { return s.stats }

// ResetStats zeroes the accumulated statistics.
func (s *SpatialGrouper) ResetStats() { s.stats = SpatialStats{} }

// cellKey addresses one grid cell within a z-layer.
type cellKey struct {
	cx, cy int
}

// PerformGrouping clusters the renderables. Every input item appears in
// exactly one output group. Groups are ordered by ascending z-index,
// then by first appearance in the input.
func (s *SpatialGrouper) PerformGrouping(rs []Renderable) []SpatialGroup {
	byLayer := make(map[int][]int)
	var layers []int
	for i, r := range rs {
		z := r.ZIndex()
		if _, ok := byLayer[z]; !ok {
			layers = append(layers, z)
		}
		byLayer[z] = append(byLayer[z], i)
	}
	sort.Ints(layers)

	var groups []SpatialGroup
	for _, z := range layers {
		groups = append(groups, s.groupLayer(z, rs, byLayer[z])...)
	}

	s.stats.TotalGroups += len(groups)
	s.stats.TotalItems += len(rs)
	if s.stats.TotalGroups > 0 {
		s.stats.AverageItemsPerGroup = float64(s.stats.TotalItems) / float64(s.stats.TotalGroups)
	}
	return groups
}

// groupLayer clusters the items of one z-layer. idx holds indices into
// rs in input order.
func (s *SpatialGrouper) groupLayer(z int, rs []Renderable, idx []int) []SpatialGroup {
	n := len(idx)
	centers := make([]Point, n)
	cells := make(map[cellKey][]int, n)
	for i, ri := range idx {
		c := rs[ri].Bounds().Center()
		centers[i] = c
		key := cellKey{cx: int(math.Floor(c.X / s.radius)), cy: int(math.Floor(c.Y / s.radius))}
		cells[key] = append(cells[key], i)
	}

	uf := newUnionFind(n)
	r2 := s.radius * s.radius
	for i := 0; i < n; i++ {
		c := centers[i]
		home := cellKey{cx: int(math.Floor(c.X / s.radius)), cy: int(math.Floor(c.Y / s.radius))}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				for _, j := range cells[cellKey{cx: home.cx + dx, cy: home.cy + dy}] {
					if j <= i || uf.find(i) == uf.find(j) {
						continue
					}
					ddx := c.X - centers[j].X
					ddy := c.Y - centers[j].Y
					if ddx*ddx+ddy*ddy <= r2 {
						uf.union(i, j)
					}
				}
			}
		}
	}

	// Collect clusters preserving first-appearance order.
	byRoot := make(map[int]*SpatialGroup)
	var order []int
	for i, ri := range idx {
		root := uf.find(i)
		g, ok := byRoot[root]
		if !ok {
			g = &SpatialGroup{ZIndex: z}
			byRoot[root] = g
			order = append(order, root)
		}
		r := rs[ri]
		g.Items = append(g.Items, r)
		g.Bounds = g.Bounds.Union(r.Bounds())
	}

	out := make([]SpatialGroup, 0, len(order))
	for _, root := range order {
		out = append(out, *byRoot[root])
	}
	return out
}

// unionFind is a disjoint-set forest with path halving and union by
// size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}
