package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// schema holds the embedded table definitions, applied in order at startup.
// Statements are idempotent so repeated boots are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id TEXT PRIMARY KEY,
		completed_at TIMESTAMP NOT NULL,
		cell_count INTEGER NOT NULL,
		bin_count INTEGER NOT NULL,
		selected_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS grid_cells (
		run_id TEXT NOT NULL,
		cell_id TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		center_lat REAL NOT NULL,
		center_lon REAL NOT NULL,
		boundary TEXT NOT NULL,
		transit_score REAL NOT NULL,
		street_score REAL NOT NULL,
		premises_score REAL NOT NULL,
		footfall_score REAL NOT NULL,
		footfall_category INTEGER NOT NULL,
		footfall_category_name TEXT NOT NULL,
		ward TEXT,
		road_name TEXT,
		estimated_people_per_hour REAL NOT NULL,
		estimated_bin_fill_rate REAL NOT NULL,
		PRIMARY KEY (run_id, cell_id),
		FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS bin_locations (
		run_id TEXT NOT NULL,
		bin_id TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		bin_type TEXT,
		capacity_liters INTEGER,
		cell_id TEXT,
		footfall_category INTEGER NOT NULL,
		footfall_score REAL NOT NULL,
		ward TEXT,
		road_name TEXT,
		estimated_people_per_hour REAL NOT NULL,
		estimated_bin_fill_rate REAL NOT NULL,
		PRIMARY KEY (run_id, bin_id),
		FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS selected_bins (
		run_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		bin_id TEXT NOT NULL,
		footfall_category INTEGER NOT NULL,
		footfall_score REAL NOT NULL,
		PRIMARY KEY (run_id, rank),
		FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_grid_cells_category ON grid_cells(run_id, footfall_category)`,
	`CREATE INDEX IF NOT EXISTS idx_bin_locations_cell ON bin_locations(run_id, cell_id)`,
}

// Migrate applies the embedded schema to the given database.
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	log.Info("Database schema ready")
	return nil
}
