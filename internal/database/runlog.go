// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run records one ingestion run of a source document
type Run struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Document   string    `json:"document"`
	Status     string    `json:"status"` // running, completed, failed
	Chunks     int       `json:"chunks"`
	Bandits    int       `json:"bandits"`
	Events     int       `json:"events"`
	Links      int       `json:"links"`
	Images     int       `json:"images"`
	Error      string    `json:"error"`
}

// RunEvent is one per-stage event within a run
type RunEvent struct {
	ID        int64     `json:"id"`
	RunID     int64     `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"` // extract, segment, ai, upload, geocode, store
	Details   string    `json:"details"`
}

// RunLog persists ingestion run history to a local SQLite database
type RunLog struct {
	db *sql.DB
}

// OpenRunLog opens (or creates) the run log at the given path
func OpenRunLog(path string) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	rl := &RunLog{db: db}
	if err := rl.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run log schema: %w", err)
	}
	return rl, nil
}

// initSchema creates the tables if they don't exist
func (r *RunLog) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		document TEXT NOT NULL,
		status TEXT NOT NULL,
		chunks INTEGER DEFAULT 0,
		bandits INTEGER DEFAULT 0,
		events INTEGER DEFAULT 0,
		links INTEGER DEFAULT 0,
		images INTEGER DEFAULT 0,
		error TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS run_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		stage TEXT NOT NULL,
		details TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_run_events_run_id ON run_events(run_id);
	`
	_, err := r.db.Exec(schema)
	return err
}

// StartRun records the beginning of an ingestion run and returns its id
func (r *RunLog) StartRun(document string) (int64, error) {
	res, err := r.db.Exec(
		"INSERT INTO runs (started_at, document, status) VALUES (?, ?, 'running')",
		time.Now(),
		document,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun marks a run completed (or failed when errMsg is non-empty)
// and records the final counts.
func (r *RunLog) FinishRun(runID int64, chunks, bandits, events, links, images int, errMsg string) error {
	status := "completed"
	if errMsg != "" {
		status = "failed"
	}
	_, err := r.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, chunks = ?, bandits = ?, events = ?, links = ?, images = ?, error = ? WHERE id = ?`,
		time.Now(),
		status,
		chunks,
		bandits,
		events,
		links,
		images,
		errMsg,
		runID,
	)
	return err
}

// LogStage records a per-stage event for a run
func (r *RunLog) LogStage(runID int64, stage, details string) error {
	_, err := r.db.Exec(
		"INSERT INTO run_events (run_id, timestamp, stage, details) VALUES (?, ?, ?, ?)",
		runID,
		time.Now(),
		stage,
		details,
	)
	return err
}

// GetRecentRuns returns the last N runs, newest first
func (r *RunLog) GetRecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, COALESCE(finished_at, started_at), document, status, chunks, bandits, events, links, images, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Document, &run.Status,
			&run.Chunks, &run.Bandits, &run.Events, &run.Links, &run.Images, &run.Error); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunEvents returns all stage events for a run in order
func (r *RunLog) GetRunEvents(runID int64) ([]RunEvent, error) {
	rows, err := r.db.Query(
		"SELECT id, run_id, timestamp, stage, details FROM run_events WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []RunEvent
	for rows.Next() {
		var event RunEvent
		if err := rows.Scan(&event.ID, &event.RunID, &event.Timestamp, &event.Stage, &event.Details); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Close closes the underlying database
func (r *RunLog) Close() error {
	return r.db.Close()
}
