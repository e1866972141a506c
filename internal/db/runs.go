package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one batch pass of the fusion filter over a sensor log, with the
// component-wise RMSE of its estimates against ground truth.
type Run struct {
	ID         string    `json:"run_id"`
	SourceFile string    `json:"source_file"`
	StartedAt  time.Time `json:"started_at"`
	RMSEX      float64   `json:"rmse_x"`
	RMSEY      float64   `json:"rmse_y"`
	RMSEVX     float64   `json:"rmse_vx"`
	RMSEVY     float64   `json:"rmse_vy"`
}

// Estimate is one filter cycle: the state estimate after folding in the
// seq-th measurement, the measurement itself (reduced to Cartesian position
// for charting), and the logged ground truth.
type Estimate struct {
	RunID     string `json:"run_id"`
	Seq       int    `json:"seq"`
	Timestamp int64  `json:"timestamp_us"`
	Sensor    string `json:"sensor"`

	PX, PY, VX, VY float64

	MeasuredX, MeasuredY float64

	TruthX, TruthY, TruthVX, TruthVY float64
}

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// InsertRun records a completed run.
func (db *DB) InsertRun(run Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_id, source_file, started_at, rmse_x, rmse_y, rmse_vx, rmse_vy)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceFile, run.StartedAt.UTC(), run.RMSEX, run.RMSEY, run.RMSEVX, run.RMSEVY)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// InsertEstimates records all estimates for a run in one transaction.
func (db *DB) InsertEstimates(estimates []Estimate) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting estimate insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO estimates (
			run_id, seq, timestamp_us, sensor,
			px, py, vx, vy,
			measured_x, measured_y,
			truth_x, truth_y, truth_vx, truth_vy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing estimate insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range estimates {
		if _, err := stmt.Exec(
			e.RunID, e.Seq, e.Timestamp, e.Sensor,
			e.PX, e.PY, e.VX, e.VY,
			e.MeasuredX, e.MeasuredY,
			e.TruthX, e.TruthY, e.TruthVX, e.TruthVY,
		); err != nil {
			return fmt.Errorf("inserting estimate %d of run %s: %w", e.Seq, e.RunID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns all recorded runs, newest first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, source_file, started_at, rmse_x, rmse_y, rmse_vx, rmse_vy
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.StartedAt, &r.RMSEX, &r.RMSEY, &r.RMSEVX, &r.RMSEVY); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID.
func (db *DB) GetRun(runID string) (Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, source_file, started_at, rmse_x, rmse_y, rmse_vx, rmse_vy
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.ID, &r.SourceFile, &r.StartedAt, &r.RMSEX, &r.RMSEY, &r.RMSEVX, &r.RMSEVY)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("fetching run %s: %w", runID, err)
	}
	return r, nil
}

// RunEstimates returns the estimates of a run in cycle order.
func (db *DB) RunEstimates(runID string) ([]Estimate, error) {
	rows, err := db.Query(`
		SELECT run_id, seq, timestamp_us, sensor,
		       px, py, vx, vy,
		       measured_x, measured_y,
		       truth_x, truth_y, truth_vx, truth_vy
		FROM estimates WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("fetching estimates for run %s: %w", runID, err)
	}
	defer rows.Close()

	var estimates []Estimate
	for rows.Next() {
		var e Estimate
		if err := rows.Scan(
			&e.RunID, &e.Seq, &e.Timestamp, &e.Sensor,
			&e.PX, &e.PY, &e.VX, &e.VY,
			&e.MeasuredX, &e.MeasuredY,
			&e.TruthX, &e.TruthY, &e.TruthVX, &e.TruthVY,
		); err != nil {
			return nil, fmt.Errorf("scanning estimate: %w", err)
		}
		estimates = append(estimates, e)
	}
	return estimates, rows.Err()
}
