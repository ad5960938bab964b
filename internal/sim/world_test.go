package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

func TestMove(t *testing.T) {
	t.Parallel()

	c := func(x, y int) occupancy.Cell { return occupancy.Cell{X: x, Y: y} }
	tests := []struct {
		name        string
		pos, target occupancy.Cell
		want        occupancy.Cell
	}{
		{"at target", c(2, 1), c(2, 1), c(2, 1)},
		{"diagonal", c(2, 1), c(5, 7), c(3, 2)},
		{"negative diagonal", c(4, 4), c(0, 0), c(3, 3)},
		{"x only", c(2, 3), c(0, 3), c(1, 3)},
		{"y only", c(2, 3), c(2, 9), c(2, 4)},
		{"adjacent", c(1, 1), c(2, 0), c(2, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Move(tt.pos, tt.target), tt.name)
	}
}

func TestReveal(t *testing.T) {
	t.Parallel()

	g, err := occupancy.FromRows([][]int{
		{-1, -1, -1, -1},
		{-1, 1, -1, 5},
		{-1, -1, 0, -1},
	})
	require.NoError(t, err)

	n := Reveal(g, occupancy.Cell{X: 1, Y: 2}, 1)
	assert.Equal(t, 6, n)
	want := [][]int{
		{-1, 0, 0, 0},
		{-1, 1, 0, 5},
		{-1, 0, 0, 0},
	}
	if diff := cmp.Diff(want, g.Rows()); diff != "" {
		t.Errorf("Reveal mismatch (-want +got):\n%s", diff)
	}
}

func TestReveal_Clipped(t *testing.T) {
	t.Parallel()

	g := occupancy.New(3, 3, occupancy.Unknown)
	assert.Equal(t, 4, Reveal(g, occupancy.Cell{X: 0, Y: 0}, 1))
	assert.Equal(t, 0, Reveal(g, occupancy.Cell{X: 0, Y: 0}, 1), "second reveal changes nothing")
	assert.Equal(t, 5, Reveal(g, occupancy.Cell{X: 2, Y: 2}, 5))
	assert.Equal(t, 0, g.Count(occupancy.Unknown))
}

func TestReveal_RadiusEdgeCases(t *testing.T) {
	t.Parallel()

	g := occupancy.New(3, 3, occupancy.Unknown)
	assert.Equal(t, 0, Reveal(g, occupancy.Cell{X: 1, Y: 1}, -1))
	assert.Equal(t, 1, Reveal(g, occupancy.Cell{X: 1, Y: 1}, 0))
	assert.Equal(t, occupancy.Free, g.At(occupancy.Cell{X: 1, Y: 1}))
}

func TestDefaultScenario(t *testing.T) {
	t.Parallel()

	g, start := DefaultScenario()
	assert.Equal(t, 6, g.Width())
	assert.Equal(t, 8, g.Height())
	assert.Equal(t, occupancy.Cell{X: 2, Y: 1}, start)
	assert.Equal(t, occupancy.Free, g.At(start))

	// Each call returns an independent grid.
	g.Set(start, occupancy.Occupied)
	g2, _ := DefaultScenario()
	assert.Equal(t, occupancy.Free, g2.At(start))
}
