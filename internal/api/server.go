// Package api serves the frontier explorer over HTTP: clients push their
// latest occupancy grid and robot cell with POST /update and ask for the
// next exploration target with GET /get_target.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/frontier.explorer/internal/config"
	"github.com/banshee-data/frontier.explorer/internal/db"
	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/httputil"
	"github.com/banshee-data/frontier.explorer/internal/monitoring"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/session"
	"github.com/banshee-data/frontier.explorer/internal/timeutil"
	"github.com/banshee-data/frontier.explorer/internal/version"
)

// Status values reported by /get_target.
const (
	StatusExploring = "exploring"
	StatusDone      = "done"
)

type Server struct {
	store *session.Store
	db    *db.DB
	cfg   *config.ExplorerConfig
	clock timeutil.Clock
}

// NewServer builds a server over store. database may be nil, in which case
// queries are not recorded and /api/runs answers 404. A nil cfg uses the
// built-in defaults.
func NewServer(store *session.Store, database *db.DB, cfg *config.ExplorerConfig) *Server {
	if cfg == nil {
		cfg = config.EmptyConfig()
	}
	return &Server{store: store, db: database, cfg: cfg, clock: timeutil.RealClock{}}
}

// WithClock replaces the clock used to timestamp recorded queries.
func (s *Server) WithClock(c timeutil.Clock) *Server {
	s.clock = c
	return s
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/update", s.handleUpdate)
	mux.HandleFunc("/get_target", s.handleGetTarget)
	mux.HandleFunc("/api/regions/near", s.handleRegionsNear)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/queries", s.handleQueries)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/runs/", s.handleRun)
	mux.HandleFunc("/debug/frontier", s.handleFrontierChart)
	return mux
}

// Handler wraps h with the access log and the configured request deadline.
func (s *Server) Handler(h http.Handler) http.Handler {
	return LoggingMiddleware(WithDeadline(h, s.cfg.GetRequestTimeout()))
}

type updateRequest struct {
	Grid     [][]int         `json:"grid"`
	RobotPos *occupancy.Cell `json:"robot_pos"`
}

type updateResponse struct {
	Status   string `json:"status"`
	Revision uint64 `json:"revision"`
}

// maxUpdateBytes allows a few bytes per cell of JSON text plus slack.
func (s *Server) maxUpdateBytes() int64 {
	return int64(s.cfg.GetMaxGridCells())*4 + 64<<10
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w, http.MethodPost)
		return
	}

	var req updateRequest
	if err := httputil.DecodeJSONBody(w, r, &req, s.maxUpdateBytes()); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if req.Grid == nil {
		httputil.BadRequest(w, "missing 'grid'")
		return
	}
	if req.RobotPos == nil {
		httputil.BadRequest(w, "missing 'robot_pos'")
		return
	}

	grid, err := occupancy.FromRows(req.Grid)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if limit := s.cfg.GetMaxGridCells(); grid.Len() > limit {
		httputil.BadRequest(w, fmt.Sprintf("grid has %d cells, limit is %d", grid.Len(), limit))
		return
	}

	rev, err := s.store.Replace(grid, *req.RobotPos)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, updateResponse{Status: "ok", Revision: rev})
}

type boundView struct {
	Min occupancy.Cell `json:"min"`
	Max occupancy.Cell `json:"max"`
}

type regionView struct {
	ID       int            `json:"id"`
	Size     int            `json:"size"`
	Nearest  occupancy.Cell `json:"nearest"`
	Distance float64        `json:"distance"`
	Score    float64        `json:"score"`
	Eligible bool           `json:"eligible"`
	Bounds   boundView      `json:"bounds"`
}

func newRegionViews(regions []frontier.Region) []regionView {
	out := make([]regionView, 0, len(regions))
	for _, r := range regions {
		out = append(out, regionView{
			ID:       r.ID,
			Size:     r.Size,
			Nearest:  r.Nearest,
			Distance: r.Distance,
			Score:    r.Score,
			Eligible: r.Eligible,
			Bounds: boundView{
				Min: occupancy.Cell{X: int(r.Bound.Min[0]), Y: int(r.Bound.Min[1])},
				Max: occupancy.Cell{X: int(r.Bound.Max[0]), Y: int(r.Bound.Max[1])},
			},
		})
	}
	return out
}

type targetResponse struct {
	Target         *occupancy.Cell `json:"target"`
	Frontiers      [][]int         `json:"frontiers"`
	Status         string          `json:"status"`
	Revision       uint64          `json:"revision"`
	Regions        []regionView    `json:"regions"`
	MalformedCells int             `json:"malformed_cells"`
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	snap, ok := s.store.Snapshot()
	if !ok {
		httputil.WriteJSONOK(w, map[string]interface{}{"target": nil})
		return
	}

	sel, err := frontier.Select(snap.Grid, snap.Reference)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	resp := targetResponse{
		Target:         sel.Target,
		Frontiers:      sel.Mask.Ints(),
		Status:         StatusExploring,
		Revision:       snap.Revision,
		Regions:        newRegionViews(sel.Regions),
		MalformedCells: sel.Malformed,
	}
	if sel.Done() {
		resp.Status = StatusDone
	}

	s.recordQuery(snap, sel)
	httputil.WriteJSONOK(w, resp)
}

// recordQuery persists a summary of the answered query. Failures are logged
// and never fail the request.
func (s *Server) recordQuery(snap session.Snapshot, sel frontier.Selection) {
	if s.db == nil || !s.cfg.GetRecordQueries() {
		return
	}
	_, err := s.db.RecordTargetQuery(db.TargetQuery{
		Revision:      snap.Revision,
		Robot:         snap.Reference,
		Target:        sel.Target,
		FrontierCells: sel.Mask.Count(),
		Regions:       len(sel.Regions),
		Malformed:     sel.Malformed,
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		monitoring.Logf("failed to record target query: %v", err)
	}
}

func (s *Server) handleRegionsNear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	if errX != nil || errY != nil {
		httputil.BadRequest(w, "'x' and 'y' must be integers")
		return
	}
	radius := 0
	if v := q.Get("radius"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httputil.BadRequest(w, "'radius' must be a non-negative integer")
			return
		}
		radius = n
	}

	snap, ok := s.store.Snapshot()
	if !ok {
		httputil.NotFound(w, "no grid has been uploaded")
		return
	}
	sel, err := frontier.Select(snap.Grid, snap.Reference)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	near := frontier.NewRegionIndex(sel).Near(occupancy.Cell{X: x, Y: y}, radius)
	httputil.WriteJSONOK(w, map[string]interface{}{
		"revision": snap.Revision,
		"regions":  newRegionViews(near),
	})
}

type statusResponse struct {
	Version   string          `json:"version"`
	GitSHA    string          `json:"git_sha"`
	BuildTime string          `json:"build_time"`
	Revision  uint64          `json:"revision"`
	UpdatedAt *time.Time      `json:"updated_at"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	RobotPos  *occupancy.Cell `json:"robot_pos"`
	Database  bool            `json:"database"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	info := version.Current()
	resp := statusResponse{
		Version:   info.Version,
		GitSHA:    info.GitSHA,
		BuildTime: info.BuildTime,
		Database:  s.db != nil,
	}
	if snap, ok := s.store.Snapshot(); ok {
		resp.Revision = snap.Revision
		resp.UpdatedAt = &snap.UpdatedAt
		resp.Width = snap.Grid.Width()
		resp.Height = snap.Grid.Height()
		resp.RobotPos = &snap.Reference
	}
	httputil.WriteJSONOK(w, resp)
}

func parseLimit(r *http.Request, def int) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 1000 {
		return 0, false
	}
	return n, true
}

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "no database attached")
		return
	}
	limit, ok := parseLimit(r, 50)
	if !ok {
		httputil.BadRequest(w, "'limit' must be between 1 and 1000")
		return
	}

	queries, err := s.db.RecentTargetQueries(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if queries == nil {
		queries = []db.TargetQuery{}
	}
	httputil.WriteJSONOK(w, map[string]interface{}{"queries": queries})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "no database attached")
		return
	}
	limit, ok := parseLimit(r, 20)
	if !ok {
		httputil.BadRequest(w, "'limit' must be between 1 and 1000")
		return
	}

	runs, err := s.db.ListRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	httputil.WriteJSONOK(w, map[string]interface{}{"runs": runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "no database attached")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		httputil.BadRequest(w, "invalid run id")
		return
	}

	run, err := s.db.GetRun(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "run not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, run)
}
