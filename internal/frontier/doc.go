// Package frontier finds and ranks exploration frontiers on an occupancy grid.
//
// What:
//
//   - BuildMask marks every interior Free cell with at least one Unknown cell
//     in its 3×3 neighbourhood. Border cells are never evaluated and are
//     always false.
//   - Label groups mask cells into 8-connected regions (diagonals connect).
//   - Select scores each region of at least MinRegionSize cells as
//     size / (distance + ScoreEpsilon), where distance is measured from the
//     reference cell to the region's nearest cell, and returns that nearest
//     cell of the best region as the target.
//   - RegionIndex answers spatial queries over the eligible regions.
//
// Determinism:
//
//   - Labels are assigned in row-major order of each region's first cell.
//   - Region cells are enumerated row-major; the nearest cell is the first
//     one with minimal distance.
//   - Regions are compared with a strict greater-than, so the lower label
//     wins an equal score.
//
// Complexity:
//
//   - BuildMask: O(W×H), 9 reads per interior cell.
//   - Label:     O(W×H×8), Memory: O(W×H).
//   - Select:    O(W×H×8).
//
// Errors:
//
//   - ErrReferenceOutOfBounds: the reference cell lies outside the grid.
//
// Every call is a pure function of its inputs; no state is retained and no
// locks are taken. Callers serialise grid updates themselves.
package frontier
