package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

// TargetQuery is one answered GET /get_target request.
type TargetQuery struct {
	ID            int64           `json:"id"`
	Revision      uint64          `json:"revision"`
	Robot         occupancy.Cell  `json:"robot_pos"`
	Target        *occupancy.Cell `json:"target"`
	FrontierCells int             `json:"frontier_cells"`
	Regions       int             `json:"regions"`
	Malformed     int             `json:"malformed_cells"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecordTargetQuery inserts q and returns its row ID.
func (db *DB) RecordTargetQuery(q TargetQuery) (int64, error) {
	var tx, ty *int
	if q.Target != nil {
		tx, ty = &q.Target.X, &q.Target.Y
	}
	res, err := db.Exec(`
		INSERT INTO target_queries (
			revision, robot_x, robot_y, target_x, target_y,
			frontier_cells, regions, malformed_cells, created_unix_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(q.Revision), q.Robot.X, q.Robot.Y, nullInt(tx), nullInt(ty),
		q.FrontierCells, q.Regions, q.Malformed, q.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record target query: %w", err)
	}
	return res.LastInsertId()
}

// RecentTargetQueries returns up to limit queries, newest first.
func (db *DB) RecentTargetQueries(limit int) ([]TargetQuery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT query_id, revision, robot_x, robot_y, target_x, target_y,
		       frontier_cells, regions, malformed_cells, created_unix_ns
		FROM target_queries
		ORDER BY created_unix_ns DESC, query_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TargetQuery
	for rows.Next() {
		var (
			q         TargetQuery
			rev       int64
			tx, ty    sql.NullInt64
			createdNS int64
		)
		if err := rows.Scan(&q.ID, &rev, &q.Robot.X, &q.Robot.Y, &tx, &ty,
			&q.FrontierCells, &q.Regions, &q.Malformed, &createdNS); err != nil {
			return nil, err
		}
		q.Revision = uint64(rev)
		if tx.Valid && ty.Valid {
			q.Target = &occupancy.Cell{X: int(tx.Int64), Y: int(ty.Int64)}
		}
		q.CreatedAt = time.Unix(0, createdNS).UTC()
		out = append(out, q)
	}
	return out, rows.Err()
}

// CountTargetQueries returns the total number of recorded queries.
func (db *DB) CountTargetQueries() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM target_queries`).Scan(&n)
	return n, err
}
