package frontier

import "github.com/banshee-data/frontier.explorer/internal/occupancy"

// Mask is a boolean grid with the same extent as the occupancy grid it was
// built from. A true cell is a frontier cell.
type Mask struct {
	width, height int
	bits          []bool
}

func newMask(width, height int) Mask {
	return Mask{width: width, height: height, bits: make([]bool, width*height)}
}

// Width is the extent along X.
func (m Mask) Width() int { return m.width }

// Height is the extent along Y.
func (m Mask) Height() int { return m.height }

// InBounds reports whether c lies within the mask.
func (m Mask) InBounds(c occupancy.Cell) bool {
	return c.X >= 0 && c.X < m.width && c.Y >= 0 && c.Y < m.height
}

// At reports whether c is a frontier cell. Out-of-bounds cells are false.
func (m Mask) At(c occupancy.Cell) bool {
	if !m.InBounds(c) {
		return false
	}
	return m.bits[c.X*m.height+c.Y]
}

// Count returns the number of frontier cells.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Cells lists the frontier cells in row-major order.
func (m Mask) Cells() []occupancy.Cell {
	var out []occupancy.Cell
	for i, b := range m.bits {
		if b {
			out = append(out, occupancy.Cell{X: i / m.height, Y: i % m.height})
		}
	}
	return out
}

// Ints returns the mask as 0/1 rows, the form used on the wire.
func (m Mask) Ints() [][]int {
	rows := make([][]int, m.width)
	for x := range rows {
		rows[x] = make([]int, m.height)
		for y := range rows[x] {
			if m.bits[x*m.height+y] {
				rows[x][y] = 1
			}
		}
	}
	return rows
}

// BuildMask computes the frontier mask of g. Grids narrower than 3 cells in
// either dimension have no interior and yield an all-false mask. The input
// grid is not modified.
func BuildMask(g *occupancy.Grid) Mask {
	w, h := g.Width(), g.Height()
	m := newMask(w, h)
	if w < 3 || h < 3 {
		return m
	}
	for x := 1; x < w-1; x++ {
		for y := 1; y < h-1; y++ {
			if g.At(occupancy.Cell{X: x, Y: y}) != occupancy.Free {
				continue
			}
			if touchesUnknown(g, x, y) {
				m.bits[x*h+y] = true
			}
		}
	}
	return m
}

// touchesUnknown scans the 3×3 block centred on an interior cell.
func touchesUnknown(g *occupancy.Grid, x, y int) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if g.At(occupancy.Cell{X: x + dx, Y: y + dy}) == occupancy.Unknown {
				return true
			}
		}
	}
	return false
}
