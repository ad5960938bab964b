package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

// Run is one simulated exploration run.
type Run struct {
	ID                string          `json:"run_id"`
	Selector          string          `json:"selector"`
	Start             occupancy.Cell  `json:"start"`
	Final             *occupancy.Cell `json:"final,omitempty"`
	Steps             int             `json:"steps"`
	Completed         bool            `json:"completed"`
	MeanFrontierCells float64         `json:"mean_frontier_cells"`
	StartedAt         time.Time       `json:"started_at"`
	FinishedAt        *time.Time      `json:"finished_at,omitempty"`
}

// RunResult carries the fields filled in when a run finishes.
type RunResult struct {
	Final             occupancy.Cell
	Steps             int
	Completed         bool
	MeanFrontierCells float64
	FinishedAt        time.Time
}

// CreateRun inserts an unfinished run and returns its generated ID.
func (db *DB) CreateRun(selector string, start occupancy.Cell, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO exploration_runs (run_id, selector, start_x, start_y, started_unix_ns)
		VALUES (?, ?, ?, ?, ?)`,
		id, selector, start.X, start.Y, startedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome of run id. Returns ErrNotFound if no such
// run exists.
func (db *DB) FinishRun(id string, r RunResult) error {
	res, err := db.Exec(`
		UPDATE exploration_runs
		SET final_x = ?, final_y = ?, steps = ?, completed = ?,
		    mean_frontier_cells = ?, finished_unix_ns = ?
		WHERE run_id = ?`,
		r.Final.X, r.Final.Y, r.Steps, r.Completed,
		r.MeanFrontierCells, r.FinishedAt.UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

const runColumns = `run_id, selector, start_x, start_y, final_x, final_y,
	steps, completed, mean_frontier_cells, started_unix_ns, finished_unix_ns`

// GetRun returns the run with the given ID.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM exploration_runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return r, err
}

// ListRuns returns up to limit runs, most recently started first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`SELECT `+runColumns+`
		FROM exploration_runs
		ORDER BY started_unix_ns DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r          Run
		fx, fy     sql.NullInt64
		finishedNS sql.NullInt64
		startedNS  int64
	)
	if err := s.Scan(&r.ID, &r.Selector, &r.Start.X, &r.Start.Y, &fx, &fy,
		&r.Steps, &r.Completed, &r.MeanFrontierCells, &startedNS, &finishedNS); err != nil {
		return nil, err
	}
	if fx.Valid && fy.Valid {
		r.Final = &occupancy.Cell{X: int(fx.Int64), Y: int(fy.Int64)}
	}
	r.StartedAt = time.Unix(0, startedNS).UTC()
	if finishedNS.Valid {
		t := time.Unix(0, finishedNS.Int64).UTC()
		r.FinishedAt = &t
	}
	return &r, nil
}
