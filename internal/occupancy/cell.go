package occupancy

import (
	"encoding/json"
	"fmt"
)

// Cell states. Any other integer stored in a grid is malformed and is
// treated as not free by the frontier test.
const (
	Unknown  = -1
	Free     = 0
	Occupied = 1
)

// IsKnownState reports whether v is one of Unknown, Free or Occupied.
func IsKnownState(v int) bool {
	return v == Unknown || v == Free || v == Occupied
}

// Cell addresses a single grid cell. X indexes the outer dimension and Y the
// inner dimension, so Cell{X: 2, Y: 1} is rows[2][1].
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// MarshalJSON encodes the cell as a two-element array [x, y].
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

// UnmarshalJSON decodes a two-element array [x, y].
func (c *Cell) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("occupancy: cell must be an [x, y] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("occupancy: cell must have exactly 2 coordinates, got %d", len(pair))
	}
	c.X, c.Y = pair[0], pair[1]
	return nil
}
