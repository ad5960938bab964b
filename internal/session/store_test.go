package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/timeutil"
)

func TestStore_EmptyUntilFirstReplace(t *testing.T) {
	s := NewStore(nil)
	_, ok := s.Snapshot()
	assert.False(t, ok)
	assert.Zero(t, s.Revision())
}

func TestStore_ReplaceWholesale(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s := NewStore(clock)

	g1 := occupancy.New(3, 3, occupancy.Free)
	rev, err := s.Replace(g1, occupancy.Cell{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	clock.Advance(time.Second)
	g2 := occupancy.New(5, 4, occupancy.Unknown)
	rev, err = s.Replace(g2, occupancy.Cell{X: 4, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev)

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 5, snap.Grid.Width())
	assert.Equal(t, occupancy.Cell{X: 4, Y: 3}, snap.Reference)
	assert.Equal(t, uint64(2), snap.Revision)
	assert.Equal(t, clock.Now(), snap.UpdatedAt)
}

func TestStore_IsolatedFromCallerAndReaders(t *testing.T) {
	s := NewStore(nil)
	g := occupancy.New(3, 3, occupancy.Free)
	_, err := s.Replace(g, occupancy.Cell{X: 0, Y: 0})
	require.NoError(t, err)

	g.Set(occupancy.Cell{X: 1, Y: 1}, occupancy.Occupied)
	snap, _ := s.Snapshot()
	assert.Equal(t, occupancy.Free, snap.Grid.At(occupancy.Cell{X: 1, Y: 1}), "caller mutation leaked into store")

	snap.Grid.Set(occupancy.Cell{X: 2, Y: 2}, occupancy.Occupied)
	again, _ := s.Snapshot()
	assert.Equal(t, occupancy.Free, again.Grid.At(occupancy.Cell{X: 2, Y: 2}), "reader mutation leaked into store")
}

func TestStore_RejectsOutOfBoundsReference(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Replace(occupancy.New(3, 3, occupancy.Free), occupancy.Cell{X: 1, Y: 1})
	require.NoError(t, err)

	_, err = s.Replace(occupancy.New(2, 2, occupancy.Free), occupancy.Cell{X: 2, Y: 0})
	assert.ErrorIs(t, err, frontier.ErrReferenceOutOfBounds)

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 3, snap.Grid.Width(), "failed replace must keep the previous snapshot")
	assert.Equal(t, uint64(1), s.Revision())
}

func TestStore_ConcurrentReplaceAndRead(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			g := occupancy.New(3+n, 3+n, occupancy.Free)
			_, _ = s.Replace(g, occupancy.Cell{X: n, Y: n})
		}(i)
		go func() {
			defer wg.Done()
			if snap, ok := s.Snapshot(); ok {
				assert.True(t, snap.Grid.InBounds(snap.Reference))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(8), s.Revision())
}
