package frontier

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

// regionEntry wraps a Region for R-tree storage.
type regionEntry struct {
	region Region
	rect   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *regionEntry) Bounds() rtreego.Rect {
	return e.rect
}

// RegionIndex is a spatial index over the eligible regions of a Selection.
// Each region occupies the unit squares of its cells, so a region spanning
// X 2..4 covers [2, 5) along X.
type RegionIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewRegionIndex indexes the eligible regions of sel.
func NewRegionIndex(sel Selection) *RegionIndex {
	tree := rtreego.NewTree(2, 2, 8)
	n := 0
	for _, r := range sel.Regions {
		if !r.Eligible {
			continue
		}
		rect, err := rtreego.NewRect(
			rtreego.Point{r.Bound.Min[0], r.Bound.Min[1]},
			[]float64{r.Bound.Max[0] - r.Bound.Min[0] + 1, r.Bound.Max[1] - r.Bound.Min[1] + 1},
		)
		if err != nil {
			continue
		}
		tree.Insert(&regionEntry{region: r, rect: rect})
		n++
	}
	return &RegionIndex{tree: tree, size: n}
}

// Len returns the number of indexed regions.
func (ri *RegionIndex) Len() int { return ri.size }

// Near returns the indexed regions whose bounds intersect the square of
// cells within Chebyshev distance radius of c, ordered by region ID.
// A negative radius is treated as zero.
func (ri *RegionIndex) Near(c occupancy.Cell, radius int) []Region {
	if radius < 0 {
		radius = 0
	}
	side := float64(2*radius + 1)
	query, err := rtreego.NewRect(
		rtreego.Point{float64(c.X - radius), float64(c.Y - radius)},
		[]float64{side, side},
	)
	if err != nil {
		return nil
	}

	hits := ri.tree.SearchIntersect(query)
	out := make([]Region, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*regionEntry).region)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
