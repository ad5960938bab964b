// Package session owns the exploration state shared between update and
// query requests: the latest occupancy grid and reference cell.
//
// The store starts empty, is populated by the first Replace and is replaced
// wholesale by every later Replace. Readers receive an independent copy, so
// a query never observes a grid mid-update.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/timeutil"
)

// Snapshot is one stored grid plus the reference cell it was sent with.
type Snapshot struct {
	Grid      *occupancy.Grid
	Reference occupancy.Cell
	UpdatedAt time.Time
	Revision  uint64
}

// Store holds at most one Snapshot. The zero value is not usable; use NewStore.
type Store struct {
	mu       sync.RWMutex
	clock    timeutil.Clock
	current  *Snapshot
	revision uint64
}

// NewStore returns an empty store. A nil clock uses the real clock.
func NewStore(clock timeutil.Clock) *Store {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Store{clock: clock}
}

// Replace stores a deep copy of grid with ref and returns the new revision.
// The reference must lie within the grid; otherwise the stored snapshot is
// left untouched and frontier.ErrReferenceOutOfBounds is returned.
func (s *Store) Replace(grid *occupancy.Grid, ref occupancy.Cell) (uint64, error) {
	if !grid.InBounds(ref) {
		return 0, fmt.Errorf("%w: %v not within %dx%d grid", frontier.ErrReferenceOutOfBounds, ref, grid.Width(), grid.Height())
	}
	snap := &Snapshot{
		Grid:      grid.Clone(),
		Reference: ref,
		UpdatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
	snap.Revision = s.revision
	s.current = snap
	return snap.Revision, nil
}

// Snapshot returns a copy of the stored snapshot. ok is false when nothing
// has been stored yet.
func (s *Store) Snapshot() (snap Snapshot, ok bool) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil {
		return Snapshot{}, false
	}
	out := *cur
	out.Grid = cur.Grid.Clone()
	return out, true
}

// Revision returns the number of successful Replace calls.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
