package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/frontier.explorer/internal/config"
	"github.com/banshee-data/frontier.explorer/internal/db"
	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/monitoring"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/session"
	"github.com/banshee-data/frontier.explorer/internal/timeutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// scenarioRows is the 6x8 grid used throughout: one 14-cell frontier
// region whose nearest cell to (2,1) is (2,1) itself.
func scenarioRows() [][]int {
	return [][]int{
		{-1, -1, -1, -1, -1, -1, -1, -1},
		{-1, 0, 0, 0, -1, -1, -1, -1},
		{-1, 0, 1, 0, 0, 0, -1, -1},
		{-1, 0, 0, 0, 1, 0, -1, -1},
		{-1, -1, -1, 0, 0, 0, -1, -1},
		{-1, -1, -1, -1, -1, -1, -1, -1},
	}
}

type testEnv struct {
	server *Server
	mux    http.Handler
	store  *session.Store
	db     *db.DB
	clock  *timeutil.MockClock
}

// newTestEnv builds a server with an optional temporary database.
func newTestEnv(t *testing.T, withDB bool, cfg *config.ExplorerConfig) *testEnv {
	t.Helper()
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := session.NewStore(clock)

	var database *db.DB
	if withDB {
		var err error
		database, err = db.NewDB(filepath.Join(t.TempDir(), "frontier.db"))
		require.NoError(t, err)
		t.Cleanup(func() { database.Close() })
	}

	srv := NewServer(store, database, cfg).WithClock(clock)
	return &testEnv{server: srv, mux: srv.ServeMux(), store: store, db: database, clock: clock}
}

func mustSelect(t *testing.T, g *occupancy.Grid, ref occupancy.Cell) frontier.Selection {
	t.Helper()
	sel, err := frontier.Select(g, ref)
	require.NoError(t, err)
	return sel
}
