package frontier

import "github.com/banshee-data/frontier.explorer/internal/occupancy"

// neighbors8 lists the 8-connected offsets: N, NE, E, SE, S, SW, W, NW.
var neighbors8 = [8][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}

// Labeling assigns every frontier cell a region label in 1..Count.
// Label 0 marks non-frontier cells.
type Labeling struct {
	width, height int
	labels        []int
	count         int
}

// Count returns the number of regions.
func (l Labeling) Count() int { return l.count }

// LabelAt returns the region label of c, or 0.
func (l Labeling) LabelAt(c occupancy.Cell) int {
	if c.X < 0 || c.X >= l.width || c.Y < 0 || c.Y >= l.height {
		return 0
	}
	return l.labels[c.X*l.height+c.Y]
}

// Label partitions the true cells of m into 8-connected regions using a
// breadth-first flood fill. Seeds are taken in row-major order, so label 1
// is the region containing the first frontier cell in that order.
func Label(m Mask) Labeling {
	w, h := m.width, m.height
	l := Labeling{width: w, height: h, labels: make([]int, w*h)}
	queue := make([]int, 0, 64)

	for i0, b := range m.bits {
		if !b || l.labels[i0] != 0 {
			continue
		}
		l.count++
		id := l.count
		l.labels[i0] = id
		queue = append(queue[:0], i0)

		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			ux, uy := u/h, u%h
			for _, d := range neighbors8 {
				vx, vy := ux+d[0], uy+d[1]
				if vx < 0 || vx >= w || vy < 0 || vy >= h {
					continue
				}
				vi := vx*h + vy
				if m.bits[vi] && l.labels[vi] == 0 {
					l.labels[vi] = id
					queue = append(queue, vi)
				}
			}
		}
	}
	return l
}

// Regions returns the cells of each region indexed by label-1. Cells within
// a region are in row-major order.
func (l Labeling) Regions() [][]occupancy.Cell {
	out := make([][]occupancy.Cell, l.count)
	for i, id := range l.labels {
		if id == 0 {
			continue
		}
		out[id-1] = append(out[id-1], occupancy.Cell{X: i / l.height, Y: i % l.height})
	}
	return out
}
