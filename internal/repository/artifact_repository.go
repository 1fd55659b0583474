package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/binsight/footfall-backend-go/internal/database"
	"github.com/binsight/footfall-backend-go/internal/models"
)

// ArtifactRepository persists completed analysis runs so the latest results
// survive a process restart.
type ArtifactRepository struct {
	db *sql.DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// SaveRun stores the artifacts of one completed run in a single transaction
// and drops all older runs.
func (r *ArtifactRepository) SaveRun(a *models.AnalysisArtifacts) error {
	return database.Transaction(func(tx *sql.Tx) error {
		selectedCount := 0
		if a.Selection != nil {
			selectedCount = len(a.Selection.Bins)
		}
		_, err := tx.Exec(
			`INSERT INTO analysis_runs (run_id, completed_at, cell_count, bin_count, selected_count)
			 VALUES (?, ?, ?, ?, ?)`,
			a.RunID, a.CompletedAt, len(a.Cells), len(a.Bins), selectedCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		cellStmt, err := tx.Prepare(
			`INSERT INTO grid_cells (run_id, cell_id, q, r, center_lat, center_lon, boundary,
				transit_score, street_score, premises_score, footfall_score,
				footfall_category, footfall_category_name, ward, road_name,
				estimated_people_per_hour, estimated_bin_fill_rate)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare cell insert: %w", err)
		}
		defer cellStmt.Close()

		for i := range a.Cells {
			c := &a.Cells[i]
			boundary, err := json.Marshal(c.Boundary)
			if err != nil {
				return fmt.Errorf("failed to encode boundary for cell %s: %w", c.CellID, err)
			}
			_, err = cellStmt.Exec(a.RunID, c.CellID, c.Q, c.R, c.CenterLat, c.CenterLon, string(boundary),
				c.TransitScore, c.StreetScore, c.PremisesScore, c.FootfallScore,
				c.FootfallCategory, c.FootfallCategoryName, c.Ward, c.RoadName,
				c.EstimatedPeoplePerHour, c.EstimatedBinFillRate)
			if err != nil {
				return fmt.Errorf("failed to insert cell %s: %w", c.CellID, err)
			}
		}

		binStmt, err := tx.Prepare(
			`INSERT INTO bin_locations (run_id, bin_id, lat, lon, bin_type, capacity_liters,
				cell_id, footfall_category, footfall_score, ward, road_name,
				estimated_people_per_hour, estimated_bin_fill_rate)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare bin insert: %w", err)
		}
		defer binStmt.Close()

		for i := range a.Bins {
			b := &a.Bins[i]
			_, err = binStmt.Exec(a.RunID, b.BinID, b.Lat, b.Lon, b.BinType, b.CapacityLiters,
				b.CellID, b.FootfallCategory, b.FootfallScore, b.Ward, b.RoadName,
				b.EstimatedPeoplePerHour, b.EstimatedBinFillRate)
			if err != nil {
				return fmt.Errorf("failed to insert bin %s: %w", b.BinID, err)
			}
		}

		if a.Selection != nil {
			selStmt, err := tx.Prepare(
				`INSERT INTO selected_bins (run_id, rank, bin_id, footfall_category, footfall_score)
				 VALUES (?, ?, ?, ?, ?)`)
			if err != nil {
				return fmt.Errorf("failed to prepare selection insert: %w", err)
			}
			defer selStmt.Close()

			for _, s := range a.Selection.Bins {
				_, err = selStmt.Exec(a.RunID, s.Rank, s.BinID, s.FootfallCategory, s.FootfallScore)
				if err != nil {
					return fmt.Errorf("failed to insert selected bin %s: %w", s.BinID, err)
				}
			}
		}

		// Keep only the run just written.
		_, err = tx.Exec("DELETE FROM analysis_runs WHERE run_id != ?", a.RunID)
		if err != nil {
			return fmt.Errorf("failed to prune old runs: %w", err)
		}

		return nil
	})
}

// LoadLatest restores the most recent persisted run, or nil when the
// database holds none.
func (r *ArtifactRepository) LoadLatest() (*models.AnalysisArtifacts, error) {
	a := &models.AnalysisArtifacts{}
	err := r.db.QueryRow(
		"SELECT run_id, completed_at FROM analysis_runs ORDER BY completed_at DESC LIMIT 1",
	).Scan(&a.RunID, &a.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	if a.Cells, err = r.loadCells(a.RunID); err != nil {
		return nil, err
	}
	if a.Bins, err = r.loadBins(a.RunID); err != nil {
		return nil, err
	}
	if a.Selection, err = r.loadSelection(a.RunID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ArtifactRepository) loadCells(runID string) ([]models.HexCell, error) {
	rows, err := r.db.Query(
		`SELECT cell_id, q, r, center_lat, center_lon, boundary,
			transit_score, street_score, premises_score, footfall_score,
			footfall_category, footfall_category_name, ward, road_name,
			estimated_people_per_hour, estimated_bin_fill_rate
		 FROM grid_cells WHERE run_id = ? ORDER BY cell_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	var cells []models.HexCell
	for rows.Next() {
		var c models.HexCell
		var boundary string
		var ward, road sql.NullString
		err := rows.Scan(&c.CellID, &c.Q, &c.R, &c.CenterLat, &c.CenterLon, &boundary,
			&c.TransitScore, &c.StreetScore, &c.PremisesScore, &c.FootfallScore,
			&c.FootfallCategory, &c.FootfallCategoryName, &ward, &road,
			&c.EstimatedPeoplePerHour, &c.EstimatedBinFillRate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		if err := json.Unmarshal([]byte(boundary), &c.Boundary); err != nil {
			return nil, fmt.Errorf("failed to decode boundary for cell %s: %w", c.CellID, err)
		}
		c.Ward = ward.String
		c.RoadName = road.String
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

func (r *ArtifactRepository) loadBins(runID string) ([]models.BinLocation, error) {
	rows, err := r.db.Query(
		`SELECT bin_id, lat, lon, bin_type, capacity_liters, cell_id,
			footfall_category, footfall_score, ward, road_name,
			estimated_people_per_hour, estimated_bin_fill_rate
		 FROM bin_locations WHERE run_id = ? ORDER BY bin_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bins: %w", err)
	}
	defer rows.Close()

	var bins []models.BinLocation
	for rows.Next() {
		var b models.BinLocation
		var binType, cellID, ward, road sql.NullString
		var capacity sql.NullInt64
		err := rows.Scan(&b.BinID, &b.Lat, &b.Lon, &binType, &capacity, &cellID,
			&b.FootfallCategory, &b.FootfallScore, &ward, &road,
			&b.EstimatedPeoplePerHour, &b.EstimatedBinFillRate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bin: %w", err)
		}
		b.BinType = binType.String
		b.CapacityLiters = int(capacity.Int64)
		b.CellID = cellID.String
		b.Ward = ward.String
		b.RoadName = road.String
		bins = append(bins, b)
	}
	return bins, rows.Err()
}

func (r *ArtifactRepository) loadSelection(runID string) (*models.SensorSelection, error) {
	rows, err := r.db.Query(
		`SELECT rank, bin_id, footfall_category, footfall_score
		 FROM selected_bins WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selection: %w", err)
	}
	defer rows.Close()

	sel := &models.SensorSelection{}
	for rows.Next() {
		var s models.SelectedBin
		if err := rows.Scan(&s.Rank, &s.BinID, &s.FootfallCategory, &s.FootfallScore); err != nil {
			return nil, fmt.Errorf("failed to scan selected bin: %w", err)
		}
		sel.Bins = append(sel.Bins, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sel.Bins) == 0 {
		return nil, nil
	}
	return sel, nil
}
