// Package footfall implements the analysis core: influence scoring of the
// hex grid, quantile categorization, derived footfall estimates, and the
// sensor placement optimizer.
package footfall

import (
	"fmt"
	"math"

	"github.com/binsight/footfall-backend-go/internal/models"
	"github.com/binsight/footfall-backend-go/internal/spatial"
	"github.com/binsight/footfall-backend-go/internal/stats"
)

// ScoreParams configures the influence scorer: per-type composite weights
// (must sum to 1) and per-type influence radii in meters.
type ScoreParams struct {
	Weights map[models.SourceType]float64
	Radii   map[models.SourceType]float64
}

// WeightTolerance is the allowed deviation of the weight sum from 1.
const WeightTolerance = 1e-6

func (p ScoreParams) validate() error {
	sum := 0.0
	for _, t := range models.SourceTypes {
		w := p.Weights[t]
		if w < 0 {
			return fmt.Errorf("%w: negative weight %f for %s", ErrConfig, w, t)
		}
		sum += w
		if r := p.Radii[t]; r <= 0 {
			return fmt.Errorf("%w: influence radius for %s must be positive, got %f", ErrConfig, t, r)
		}
	}
	if math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: source type weights must sum to 1, got %f", ErrConfig, sum)
	}
	return nil
}

// Score distributes source influence over the grid and writes normalized
// per-type sub-scores and the weighted composite score into the cells.
//
// A source contributes intensityNorm * (1 - d/radius) to every cell within
// its type's radius, where intensityNorm is the source intensity divided by
// the maximum intensity among same-type sources. Per-type sums are then
// rescaled by the maximum summed value over all cells, so each sub-score and
// the composite land in [0, 1].
func Score(cells []models.HexCell, srcs []models.FootfallSource, p ScoreParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	if len(cells) == 0 {
		return fmt.Errorf("%w: no cells to score", ErrData)
	}

	byType := make(map[models.SourceType][]models.FootfallSource)
	for _, s := range srcs {
		byType[s.Type] = append(byType[s.Type], s)
	}

	for _, t := range models.SourceTypes {
		raw := accumulate(cells, byType[t], p.Radii[t])
		norm := stats.ScaleByMax(raw)
		for i := range cells {
			cells[i].SetSubScore(t, norm[i])
		}
	}

	for i := range cells {
		composite := 0.0
		for _, t := range models.SourceTypes {
			composite += p.Weights[t] * cells[i].SubScore(t)
		}
		// Guard against float drift at the top of the range.
		cells[i].FootfallScore = math.Min(composite, 1)
	}
	return nil
}

// accumulate sums the raw (pre-normalization) influence of one source type
// over every cell.
func accumulate(cells []models.HexCell, srcs []models.FootfallSource, radius float64) []float64 {
	raw := make([]float64, len(cells))
	if len(srcs) == 0 {
		return raw
	}

	maxIntensity := 0.0
	for _, s := range srcs {
		if s.Intensity > maxIntensity {
			maxIntensity = s.Intensity
		}
	}
	if maxIntensity <= 0 {
		return raw
	}

	for i := range cells {
		for _, s := range srcs {
			d := spatial.HaversineDistance(cells[i].CenterLat, cells[i].CenterLon, s.Lat, s.Lon)
			if d >= radius {
				continue
			}
			raw[i] += (s.Intensity / maxIntensity) * (1 - d/radius)
		}
	}
	return raw
}
