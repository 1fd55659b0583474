package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/binsight/footfall-backend-go/internal/config"
	"github.com/binsight/footfall-backend-go/internal/footfall"
	"github.com/binsight/footfall-backend-go/internal/models"
	"github.com/binsight/footfall-backend-go/internal/repository"
	"github.com/binsight/footfall-backend-go/internal/sources"
	"github.com/binsight/footfall-backend-go/internal/spatial"
)

// AnalysisService owns the single process-wide analysis job. Only one run
// executes at a time; a trigger during a run is refused, never queued.
type AnalysisService struct {
	cfg  *config.Config
	repo *repository.ArtifactRepository

	mu        sync.Mutex
	status    models.JobStatus
	artifacts *models.AnalysisArtifacts

	// Imported bin inventory for the next run. Nil means generate samples.
	pendingBins []models.BinLocation
}

// NewAnalysisService creates the analysis service. repo may be nil in tests
// to skip persistence.
func NewAnalysisService(cfg *config.Config, repo *repository.ArtifactRepository) *AnalysisService {
	s := &AnalysisService{
		cfg:  cfg,
		repo: repo,
		status: models.JobStatus{
			State:     models.JobStateIdle,
			Message:   "no analysis run yet",
			UpdatedAt: time.Now(),
		},
	}
	if repo != nil {
		if a, err := repo.LoadLatest(); err != nil {
			log.Errorf("Failed to restore persisted analysis run: %v", err)
		} else if a != nil {
			s.artifacts = a
			s.status = models.JobStatus{
				RunID:     a.RunID,
				State:     models.JobStateComplete,
				Progress:  100,
				Message:   "restored persisted analysis run",
				HasData:   true,
				UpdatedAt: time.Now(),
			}
			log.Infof("Restored analysis run %s (%d cells, %d bins)", a.RunID, len(a.Cells), len(a.Bins))
		}
	}
	return s
}

// Status returns the current job snapshot without blocking on pipeline work.
func (s *AnalysisService) Status() models.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Artifacts returns the latest completed run's outputs, or nil before the
// first successful run.
func (s *AnalysisService) Artifacts() *models.AnalysisArtifacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifacts
}

// SetBinInventory stages an imported bin inventory for the next run.
func (s *AnalysisService) SetBinInventory(bins []models.BinLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingBins = bins
}

// TriggerRun starts an analysis run in the background. It returns the new
// run's ID, or started=false when a run is already in flight.
func (s *AnalysisService) TriggerRun() (runID string, started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State == models.JobStateRunning {
		return "", false
	}

	runID = uuid.NewString()
	s.status = models.JobStatus{
		RunID:     runID,
		State:     models.JobStateRunning,
		Progress:  0,
		Message:   "starting analysis",
		HasData:   s.artifacts != nil,
		UpdatedAt: time.Now(),
	}

	go s.run(runID)
	return runID, true
}

// setProgress updates the job snapshot. The lock covers only the update,
// never pipeline work.
func (s *AnalysisService) setProgress(progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Progress = progress
	s.status.Message = message
	s.status.UpdatedAt = time.Now()
}

func (s *AnalysisService) fail(runID string, err error) {
	log.Errorf("Analysis run %s failed: %v", runID, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = models.JobStatus{
		RunID:     runID,
		State:     models.JobStateError,
		Progress:  s.status.Progress,
		Message:   err.Error(),
		HasData:   s.artifacts != nil,
		UpdatedAt: time.Now(),
	}
}

// run executes the full pipeline. On success the artifacts reference is
// swapped as a unit; on failure the previous artifacts stay queryable.
func (s *AnalysisService) run(runID string) {
	started := time.Now()
	log.Infof("Analysis run %s started", runID)

	s.setProgress(5, "loading footfall sources")
	srcs := s.loadSources()

	s.setProgress(15, "building hexagonal grid")
	region := spatial.Region{
		MinLat:   s.cfg.MinLat,
		MaxLat:   s.cfg.MaxLat,
		MinLon:   s.cfg.MinLon,
		MaxLon:   s.cfg.MaxLon,
		Boundary: sources.RegionBoundary(),
	}
	cells, err := spatial.BuildHexGrid(region, s.cfg.CellRadiusMeters)
	if err != nil {
		s.fail(runID, fmt.Errorf("grid construction: %w", err))
		return
	}

	s.setProgress(35, "scoring footfall influence")
	err = footfall.Score(cells, srcs, footfall.ScoreParams{
		Weights: s.cfg.Weights(),
		Radii:   s.cfg.Radii(),
	})
	if err != nil {
		s.fail(runID, fmt.Errorf("scoring: %w", err))
		return
	}

	s.setProgress(55, "categorizing cells")
	bands, err := footfall.Classify(cells, s.cfg.Categories)
	if err != nil {
		s.fail(runID, fmt.Errorf("categorization: %w", err))
		return
	}

	s.setProgress(65, "enriching cells with ward and road data")
	s.enrich(cells)

	s.setProgress(75, "joining bin inventory to grid")
	bins := s.binInventory()
	footfall.JoinBins(bins, cells, s.cfg.CellRadiusMeters)

	s.setProgress(85, "optimizing sensor placement")
	selection, err := footfall.Optimize(bins, footfall.OptimizeParams{
		TargetSensors:    s.cfg.TargetSensors,
		MinSpacingMeters: s.cfg.MinSensorSpacing,
		Categories:       s.cfg.Categories,
	})
	if err != nil {
		s.fail(runID, fmt.Errorf("sensor optimization: %w", err))
		return
	}

	var warnings []string
	for _, sf := range selection.Shortfalls {
		warnings = append(warnings,
			fmt.Sprintf("category %d: selected %d of %d target sensors under spacing constraint",
				sf.Category, sf.Selected, sf.Target))
	}

	artifacts := &models.AnalysisArtifacts{
		RunID:       runID,
		CompletedAt: time.Now(),
		Cells:       cells,
		Bands:       bands,
		Bins:        bins,
		Selection:   selection,
		Sources:     srcs,
	}

	if s.repo != nil {
		s.setProgress(95, "persisting analysis artifacts")
		if err := s.repo.SaveRun(artifacts); err != nil {
			s.fail(runID, fmt.Errorf("persisting run: %w", err))
			return
		}
	}

	s.mu.Lock()
	s.artifacts = artifacts
	s.status = models.JobStatus{
		RunID:     runID,
		State:     models.JobStateComplete,
		Progress:  100,
		Message:   fmt.Sprintf("analysis complete: %d cells, %d bins, %d sensors", len(cells), len(bins), len(selection.Bins)),
		HasData:   true,
		UpdatedAt: time.Now(),
		Warnings:  warnings,
	}
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"run_id":   runID,
		"cells":    len(cells),
		"bins":     len(bins),
		"selected": len(selection.Bins),
		"duration": time.Since(started).String(),
	}).Info("Analysis run complete")
}

func (s *AnalysisService) loadSources() []models.FootfallSource {
	srcs := sources.TransitStops()
	srcs = append(srcs, sources.StreetStops(s.cfg.MinLat, s.cfg.MaxLat, s.cfg.MinLon, s.cfg.MaxLon)...)
	srcs = append(srcs, sources.LicensedPremises()...)
	return srcs
}

// enrich attaches ward, road and footfall estimates to each cell.
func (s *AnalysisService) enrich(cells []models.HexCell) {
	wards := sources.Wards()
	for i := range cells {
		c := &cells[i]
		w := sources.WardFor(c.CenterLat, c.CenterLon, wards)
		if w != nil {
			c.Ward = w.Name
			c.RoadName = sources.RoadFor(c.CenterLat, c.CenterLon, w)
		}
		c.EstimatedPeoplePerHour = footfall.PeoplePerHour(c.FootfallScore, c.FootfallCategory, s.cfg.Categories)
		c.EstimatedBinFillRate = footfall.BinFillRate(c.EstimatedPeoplePerHour, 0)
	}
}

// binInventory returns the staged imported bins, or a generated sample
// inventory when none was imported.
func (s *AnalysisService) binInventory() []models.BinLocation {
	s.mu.Lock()
	pending := s.pendingBins
	s.mu.Unlock()

	if len(pending) > 0 {
		bins := make([]models.BinLocation, len(pending))
		copy(bins, pending)
		return bins
	}
	n := s.cfg.TargetSensors * 3
	if n < 100 {
		n = 100
	}
	return sources.SampleBins(n, s.cfg.MinLat, s.cfg.MaxLat, s.cfg.MinLon, s.cfg.MaxLon)
}
