package frontier_test

import (
	"fmt"

	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

// ExampleSelect picks the next exploration target on a small partially
// explored map, starting from cell (2,1).
func ExampleSelect() {
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

	sel, err := frontier.Select(g, occupancy.Cell{X: 2, Y: 1})
	if err != nil {
		panic(err)
	}
	fmt.Println("frontier cells:", sel.Mask.Count())
	fmt.Println("regions:", len(sel.Regions))
	fmt.Println("target:", *sel.Target)
	// Output:
	// frontier cells: 14
	// regions: 1
	// target: (2,1)
}

// ExampleSelect_done shows the terminal signal: with nothing left to
// explore the target is nil.
func ExampleSelect_done() {
	g := occupancy.New(5, 5, occupancy.Unknown)
	sel, _ := frontier.Select(g, occupancy.Cell{X: 2, Y: 2})
	fmt.Println(sel.Target == nil, sel.Mask.Count())
	// Output:
	// true 0
}
