package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/frontier.explorer/internal/config"
	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/monitoring"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/timeutil"
)

// State is the exploration state of a run.
type State int

const (
	Exploring State = iota
	Done
)

func (s State) String() string {
	switch s {
	case Exploring:
		return "exploring"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Frame is the state shown for one step, captured before the robot moves.
// Grid is the live simulation grid and is only valid during WriteFrame.
type Frame struct {
	RunID     string
	Step      int
	Grid      *occupancy.Grid
	Robot     occupancy.Cell
	Target    *occupancy.Cell
	Frontiers [][]int
}

// FrameSink receives every frame of a run. FramePlotter is one.
type FrameSink interface {
	WriteFrame(f Frame) error
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	RunID             string
	Selector          string
	Start             occupancy.Cell
	Final             occupancy.Cell
	Steps             int // moves made
	State             State
	Revealed          int
	MeanFrontierCells float64
	StartedAt         time.Time
	FinishedAt        time.Time
	Grid              *occupancy.Grid // final grid
}

// Simulator runs one exploration. Configure the exported fields before
// calling Run; New fills them from an ExplorerConfig.
type Simulator struct {
	RunID        string // generated when empty
	Selector     Selector
	Clock        timeutil.Clock
	Frames       FrameSink // optional
	MaxSteps     int
	StepInterval time.Duration
	RevealRadius int

	grid  *occupancy.Grid
	start occupancy.Cell
}

// New returns a simulator over a private copy of grid starting at start.
// A nil cfg uses defaults.
func New(grid *occupancy.Grid, start occupancy.Cell, selector Selector, cfg *config.ExplorerConfig) *Simulator {
	if cfg == nil {
		cfg = config.EmptyConfig()
	}
	return &Simulator{
		Selector:     selector,
		Clock:        timeutil.RealClock{},
		MaxSteps:     cfg.GetMaxSteps(),
		StepInterval: cfg.GetStepInterval(),
		RevealRadius: cfg.GetRevealRadius(),
		grid:         grid.Clone(),
		start:        start,
	}
}

// Run explores until the selector reports no eligible frontier, MaxSteps
// selections have been made, or ctx is cancelled. The summary is valid even
// when an error is returned and reflects the steps completed so far.
func (s *Simulator) Run(ctx context.Context) (Summary, error) {
	g := s.grid.Clone()
	pos := s.start
	runID := s.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	sum := Summary{
		RunID:     runID,
		Selector:  s.Selector.Name(),
		Start:     s.start,
		Final:     pos,
		State:     Exploring,
		StartedAt: s.Clock.Now(),
		Grid:      g,
	}
	finish := func(err error) (Summary, error) {
		sum.Final = pos
		sum.FinishedAt = s.Clock.Now()
		return sum, err
	}

	if !g.InBounds(pos) {
		return finish(fmt.Errorf("%w: start %v not within %dx%d grid",
			frontier.ErrReferenceOutOfBounds, pos, g.Width(), g.Height()))
	}

	var frontierCounts []float64
	for step := 0; step < s.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		res, err := s.Selector.Select(ctx, g, pos)
		if err != nil {
			return finish(fmt.Errorf("step %d: %w", step, err))
		}
		frontierCounts = append(frontierCounts, float64(res.FrontierCells()))
		sum.MeanFrontierCells = stat.Mean(frontierCounts, nil)

		if s.Frames != nil {
			f := Frame{RunID: sum.RunID, Step: step, Grid: g, Robot: pos, Target: res.Target, Frontiers: res.Frontiers}
			if err := s.Frames.WriteFrame(f); err != nil {
				return finish(fmt.Errorf("step %d: frame: %w", step, err))
			}
		}
		s.Clock.Sleep(s.StepInterval)

		if res.Target == nil {
			monitoring.Logf("sim %s: step %d: exploration complete at %v", sum.RunID, step, pos)
			sum.State = Done
			break
		}

		next := Move(pos, *res.Target)
		revealed := Reveal(g, next, s.RevealRadius)
		monitoring.Logf("sim %s: step %d: %v -> %v (target %v, revealed %d, frontier %d)",
			sum.RunID, step, pos, next, *res.Target, revealed, res.FrontierCells())
		pos = next
		sum.Revealed += revealed
		sum.Steps++
	}
	return finish(nil)
}
