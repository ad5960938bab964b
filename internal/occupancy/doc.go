// Package occupancy owns the partially-known occupancy grid used by the
// exploration service.
//
// Responsibilities: cell state constants, grid storage and validation,
// conversion to and from the nested-slice wire form.
// Key types: Grid, Cell.
//
// Indexing follows the wire form: a grid decoded from [][]int addresses
// cells as rows[X][Y]. Width is the outer extent (along X) and Height is the
// inner extent (along Y).
//
// No frontier logic lives here; see internal/frontier.
package occupancy
