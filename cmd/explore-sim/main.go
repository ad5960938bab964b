// Command explore-sim drives a simulated robot across an occupancy grid,
// choosing each move with the frontier selector until nothing is left to
// explore.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/frontier.explorer/internal/config"
	"github.com/banshee-data/frontier.explorer/internal/db"
	"github.com/banshee-data/frontier.explorer/internal/fsutil"
	"github.com/banshee-data/frontier.explorer/internal/httputil"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/sim"
	"github.com/banshee-data/frontier.explorer/internal/timeutil"
)

var (
	configPath = flag.String("config", "", "Path to explorer config JSON (defaults built in)")
	serverURL  = flag.String("server", "", "Frontier service base URL; empty selects in-process")
	gridPath   = flag.String("grid", "", "Scenario JSON {\"grid\": [[...]], \"robot_pos\": [x, y]}; empty uses the built-in scenario")
	plotDir    = flag.String("plot-dir", "", "Directory for per-step PNG frames; empty disables plotting")
	dbPath     = flag.String("db", "", "SQLite database to record the run in; empty disables recording")
)

// scenarioFile matches the /update request body so a captured request can
// be replayed as a scenario.
type scenarioFile struct {
	Grid     [][]int         `json:"grid"`
	RobotPos *occupancy.Cell `json:"robot_pos"`
}

// loadScenario reads a scenario from fsys, or returns the built-in one when
// path is empty.
func loadScenario(fsys fsutil.FileSystem, path string) (*occupancy.Grid, occupancy.Cell, error) {
	if path == "" {
		g, start := sim.DefaultScenario()
		return g, start, nil
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, occupancy.Cell{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	var sf scenarioFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, occupancy.Cell{}, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if sf.Grid == nil {
		return nil, occupancy.Cell{}, errors.New("scenario is missing grid")
	}
	if sf.RobotPos == nil {
		return nil, occupancy.Cell{}, errors.New("scenario is missing robot_pos")
	}
	g, err := occupancy.FromRows(sf.Grid)
	if err != nil {
		return nil, occupancy.Cell{}, err
	}
	return g, *sf.RobotPos, nil
}

// options collects everything a run needs; zero values disable the
// optional outputs.
type options struct {
	cfg      *config.ExplorerConfig
	grid     *occupancy.Grid
	start    occupancy.Cell
	selector sim.Selector
	clock    timeutil.Clock
	fs       fsutil.FileSystem
	plotDir  string
	database *db.DB
}

// runSim executes one exploration and records it when a database is set.
func runSim(ctx context.Context, o options) (sim.Summary, error) {
	s := sim.New(o.grid, o.start, o.selector, o.cfg)
	if o.clock != nil {
		s.Clock = o.clock
	}

	if o.plotDir != "" {
		fp, err := sim.NewFramePlotter(o.fs, o.plotDir, o.cfg.GetFrameSizeInches())
		if err != nil {
			return sim.Summary{}, fmt.Errorf("failed to set up plotting: %w", err)
		}
		s.Frames = fp
	}

	if o.database != nil {
		id, err := o.database.CreateRun(o.selector.Name(), o.start, s.Clock.Now())
		if err != nil {
			return sim.Summary{}, err
		}
		s.RunID = id
	}

	sum, runErr := s.Run(ctx)

	if o.database != nil {
		err := o.database.FinishRun(sum.RunID, db.RunResult{
			Final:             sum.Final,
			Steps:             sum.Steps,
			Completed:         sum.State == sim.Done,
			MeanFrontierCells: sum.MeanFrontierCells,
			FinishedAt:        sum.FinishedAt,
		})
		if err != nil {
			log.Printf("failed to record run %s: %v", sum.RunID, err)
		}
	}
	return sum, runErr
}

func main() {
	flag.Parse()

	cfg := config.EmptyConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	fsys := fsutil.OSFileSystem{}
	grid, start, err := loadScenario(fsys, *gridPath)
	if err != nil {
		log.Fatalf("failed to load scenario: %v", err)
	}

	var selector sim.Selector = sim.LocalSelector{}
	if *serverURL != "" {
		client := httputil.NewStandardClient(&http.Client{Timeout: cfg.GetRequestTimeout() + 5*time.Second})
		selector = sim.NewRemoteSelector(client, *serverURL)
	}

	var database *db.DB
	if *dbPath != "" {
		database, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("exploring %dx%d grid from %v using %s selector", grid.Width(), grid.Height(), start, selector.Name())
	sum, err := runSim(ctx, options{
		cfg:      cfg,
		grid:     grid,
		start:    start,
		selector: selector,
		fs:       fsys,
		plotDir:  *plotDir,
		database: database,
	})
	if sum.RunID != "" {
		log.Printf("run %s: %s after %d steps at %v, revealed %d cells, mean frontier %.2f cells",
			sum.RunID, sum.State, sum.Steps, sum.Final, sum.Revealed, sum.MeanFrontierCells)
	}
	if err != nil {
		log.Printf("run ended with error: %v", err)
		if database != nil {
			database.Close()
		}
		stop()
		os.Exit(1)
	}
}
