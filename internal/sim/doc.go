// Package sim drives a simulated robot through an occupancy grid using the
// frontier selector.
//
// Each step asks a Selector for the next target, records a frame, moves the
// robot one cell toward the target (diagonal moves allowed) and reveals the
// unknown cells around its new position as free. The run ends when the
// selector reports no eligible frontier, the step cap is reached, or the
// context is cancelled.
package sim
