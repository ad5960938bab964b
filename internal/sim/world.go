package sim

import "github.com/banshee-data/frontier.explorer/internal/occupancy"

// DefaultScenario returns the demonstration grid and start cell: a small
// partially explored room with two obstacles, robot at (2,1).
func DefaultScenario() (*occupancy.Grid, occupancy.Cell) {
	g, err := occupancy.FromRows([][]int{
		{-1, -1, -1, -1, -1, -1, -1, -1},
		{-1, 0, 0, 0, -1, -1, -1, -1},
		{-1, 0, 1, 0, 0, 0, -1, -1},
		{-1, 0, 0, 0, 1, 0, -1, -1},
		{-1, -1, -1, 0, 0, 0, -1, -1},
		{-1, -1, -1, -1, -1, -1, -1, -1},
	})
	if err != nil {
		panic(err)
	}
	return g, occupancy.Cell{X: 2, Y: 1}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Move returns the cell one step from pos toward target, moving by the sign
// of the delta on each axis.
func Move(pos, target occupancy.Cell) occupancy.Cell {
	return occupancy.Cell{
		X: pos.X + sign(target.X-pos.X),
		Y: pos.Y + sign(target.Y-pos.Y),
	}
}

// Reveal marks every Unknown cell within Chebyshev distance radius of center
// as Free, clipped to the grid, and returns how many cells changed. Known
// cells, including malformed values, are left alone.
func Reveal(g *occupancy.Grid, center occupancy.Cell, radius int) int {
	if radius < 0 {
		return 0
	}
	n := 0
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			c := occupancy.Cell{X: x, Y: y}
			if g.InBounds(c) && g.At(c) == occupancy.Unknown {
				g.Set(c, occupancy.Free)
				n++
			}
		}
	}
	return n
}
