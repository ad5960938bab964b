package frontier

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/banshee-data/frontier.explorer/internal/monitoring"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

const (
	// MinRegionSize is the smallest region that can be chosen as a target.
	// Smaller regions are treated as sensing noise.
	MinRegionSize = 4

	// ScoreEpsilon keeps the score finite when the nearest frontier cell is
	// the reference cell itself.
	ScoreEpsilon = 1e-3
)

// ErrReferenceOutOfBounds indicates the reference cell lies outside the grid.
var ErrReferenceOutOfBounds = errors.New("frontier: reference cell out of bounds")

// malformedGrids counts Select calls that saw cell values outside {-1,0,1}.
var malformedGrids monitoring.Counter

// Region is one 8-connected frontier region as seen from a reference cell.
type Region struct {
	ID       int            // label, 1-based, in row-major order of first cell
	Size     int            // cell count; the information gain
	Nearest  occupancy.Cell // first row-major cell closest to the reference
	Distance float64        // Euclidean distance from the reference to Nearest
	Score    float64        // Size / (Distance + ScoreEpsilon); 0 when not Eligible
	Eligible bool           // Size >= MinRegionSize
	Bound    orb.Bound      // axis-aligned cell extent, X on the first axis
}

// Selection is the result of one Select call.
type Selection struct {
	// Target is the chosen cell, or nil when no region is eligible.
	// A nil Target is the terminal "exploration complete" signal.
	Target *occupancy.Cell
	// Mask is the frontier mask the selection was computed from.
	Mask Mask
	// Regions holds every labelled region in ascending ID order.
	Regions []Region
	// Best indexes Regions for the chosen region, or -1.
	Best int
	// Malformed counts grid cells holding values outside {-1, 0, 1}.
	Malformed int
}

// Done reports whether no eligible frontier remains.
func (s Selection) Done() bool { return s.Target == nil }

// Select computes the frontier mask of g, labels its regions and picks the
// nearest cell of the highest-scoring eligible region as seen from ref.
//
// Returns ErrReferenceOutOfBounds (wrapped) if ref is outside g; no partial
// result accompanies the error.
func Select(g *occupancy.Grid, ref occupancy.Cell) (Selection, error) {
	if !g.InBounds(ref) {
		return Selection{Best: -1}, fmt.Errorf("%w: %v not within %dx%d grid", ErrReferenceOutOfBounds, ref, g.Width(), g.Height())
	}

	sel := Selection{Mask: BuildMask(g), Best: -1, Malformed: g.Malformed()}
	if sel.Malformed > 0 {
		n := malformedGrids.Inc()
		monitoring.Logf("frontier: grid %dx%d has %d malformed cells treated as non-free (grids affected: %d)",
			g.Width(), g.Height(), sel.Malformed, n)
	}

	cellsByRegion := Label(sel.Mask).Regions()
	sel.Regions = make([]Region, 0, len(cellsByRegion))
	refPt := point(ref)
	bestScore := math.Inf(-1)

	for i, cells := range cellsByRegion {
		r := Region{ID: i + 1, Size: len(cells), Eligible: len(cells) >= MinRegionSize}
		r.Nearest, r.Distance, r.Bound = nearest(cells, refPt)
		if r.Eligible {
			r.Score = float64(r.Size) / (r.Distance + ScoreEpsilon)
			if r.Score > bestScore {
				bestScore = r.Score
				sel.Best = len(sel.Regions)
			}
		}
		sel.Regions = append(sel.Regions, r)
	}

	if sel.Best >= 0 {
		target := sel.Regions[sel.Best].Nearest
		sel.Target = &target
	}
	return sel, nil
}

// nearest returns the first cell with minimal distance to ref along with
// that distance and the bounds of cells. cells must be non-empty.
func nearest(cells []occupancy.Cell, ref orb.Point) (occupancy.Cell, float64, orb.Bound) {
	best := cells[0]
	bestDist := planar.Distance(point(best), ref)
	bound := point(best).Bound()
	for _, c := range cells[1:] {
		p := point(c)
		bound = bound.Extend(p)
		if d := planar.Distance(p, ref); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist, bound
}

func point(c occupancy.Cell) orb.Point {
	return orb.Point{float64(c.X), float64(c.Y)}
}
