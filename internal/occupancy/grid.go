package occupancy

import "errors"

var (
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("occupancy: all rows must have the same length")
)

// Grid is a width×height array of cell states stored row-major along X.
// The zero-extent grid is valid and simply has no cells.
type Grid struct {
	width, height int
	cells         []int
}

// New returns a width×height grid with every cell set to fill.
// Negative dimensions are clamped to zero.
func New(width, height, fill int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{width: width, height: height, cells: make([]int, width*height)}
	if fill != 0 {
		for i := range g.cells {
			g.cells[i] = fill
		}
	}
	return g
}

// FromRows builds a Grid from nested slices, deep-copying the input.
// An empty outer slice or empty rows produce a zero-extent grid.
// Returns ErrNonRectangular if any row length differs from the first.
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0, Free), nil
	}
	h := len(rows[0])
	for _, row := range rows {
		if len(row) != h {
			return nil, ErrNonRectangular
		}
	}
	g := New(len(rows), h, Free)
	for x, row := range rows {
		copy(g.cells[x*h:(x+1)*h], row)
	}
	return g, nil
}

// Width is the extent along X (number of outer rows).
func (g *Grid) Width() int { return g.width }

// Height is the extent along Y (length of each row).
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

func (g *Grid) index(c Cell) int {
	return c.X*g.height + c.Y
}

// At returns the state of c. It panics if c is out of bounds.
func (g *Grid) At(c Cell) int {
	if !g.InBounds(c) {
		panic("occupancy: cell " + c.String() + " out of bounds")
	}
	return g.cells[g.index(c)]
}

// Set stores v at c. It panics if c is out of bounds.
func (g *Grid) Set(c Cell, v int) {
	if !g.InBounds(c) {
		panic("occupancy: cell " + c.String() + " out of bounds")
	}
	g.cells[g.index(c)] = v
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{width: g.width, height: g.height, cells: make([]int, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Rows returns the grid as freshly allocated nested slices.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.width)
	for x := range rows {
		rows[x] = make([]int, g.height)
		copy(rows[x], g.cells[x*g.height:(x+1)*g.height])
	}
	return rows
}

// Count returns how many cells hold state v.
func (g *Grid) Count(v int) int {
	n := 0
	for _, c := range g.cells {
		if c == v {
			n++
		}
	}
	return n
}

// Malformed returns how many cells hold a value outside {-1, 0, 1}.
func (g *Grid) Malformed() int {
	n := 0
	for _, c := range g.cells {
		if !IsKnownState(c) {
			n++
		}
	}
	return n
}
