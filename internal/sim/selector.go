package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/httputil"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

// Result is one selector answer.
type Result struct {
	// Target is nil when exploration is complete.
	Target *occupancy.Cell
	// Frontiers is the frontier mask as 0/1 rows.
	Frontiers [][]int
}

// FrontierCells counts the set cells of Frontiers.
func (r Result) FrontierCells() int {
	n := 0
	for _, row := range r.Frontiers {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Selector picks the next exploration target for a robot at ref.
type Selector interface {
	Select(ctx context.Context, g *occupancy.Grid, ref occupancy.Cell) (Result, error)
	// Name labels runs recorded with this selector.
	Name() string
}

// LocalSelector runs the frontier selector in process.
type LocalSelector struct{}

func (LocalSelector) Name() string { return "local" }

func (LocalSelector) Select(ctx context.Context, g *occupancy.Grid, ref occupancy.Cell) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	sel, err := frontier.Select(g, ref)
	if err != nil {
		return Result{}, err
	}
	return Result{Target: sel.Target, Frontiers: sel.Mask.Ints()}, nil
}

// ErrNoSnapshot is returned when the service answers /get_target as if no
// grid had been uploaded.
var ErrNoSnapshot = errors.New("sim: service has no grid snapshot")

// RemoteSelector drives a frontier service: every Select uploads the grid
// with POST /update and then asks GET /get_target.
type RemoteSelector struct {
	client  httputil.HTTPClient
	baseURL string
}

// NewRemoteSelector targets the service at baseURL, e.g. http://localhost:8080.
func NewRemoteSelector(client httputil.HTTPClient, baseURL string) *RemoteSelector {
	return &RemoteSelector{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *RemoteSelector) Name() string { return "remote" }

type remoteUpdate struct {
	Grid     [][]int        `json:"grid"`
	RobotPos occupancy.Cell `json:"robot_pos"`
}

type remoteTarget struct {
	Target    *occupancy.Cell `json:"target"`
	Frontiers [][]int         `json:"frontiers"`
	Status    string          `json:"status"`
}

func (s *RemoteSelector) Select(ctx context.Context, g *occupancy.Grid, ref occupancy.Cell) (Result, error) {
	if err := httputil.PostJSON(ctx, s.client, s.baseURL+"/update", remoteUpdate{Grid: g.Rows(), RobotPos: ref}, nil); err != nil {
		return Result{}, fmt.Errorf("update: %w", err)
	}

	var resp remoteTarget
	if err := httputil.GetJSON(ctx, s.client, s.baseURL+"/get_target", &resp); err != nil {
		return Result{}, fmt.Errorf("get_target: %w", err)
	}
	if resp.Status == "" {
		return Result{}, ErrNoSnapshot
	}
	return Result{Target: resp.Target, Frontiers: resp.Frontiers}, nil
}
