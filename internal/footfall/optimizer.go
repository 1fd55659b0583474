package footfall

import (
	"fmt"
	"math"
	"sort"

	"github.com/binsight/footfall-backend-go/internal/models"
	"github.com/binsight/footfall-backend-go/internal/spatial"
)

// OptimizeParams configures the sensor placement optimizer.
type OptimizeParams struct {
	// TargetSensors is the total number of bins to select.
	TargetSensors int
	// MinSpacingMeters is the minimum distance between any two selected bins.
	MinSpacingMeters float64
	// Categories is the number of footfall categories in play.
	Categories int
	// CategoryWeights optionally overrides the per-category share of the
	// target. When nil, weights default to the square root of each
	// category's bin population, normalized to sum to 1, which biases
	// coverage toward busy areas without starving quiet ones.
	CategoryWeights map[int]float64
}

func (p OptimizeParams) validate(inventory int) error {
	if p.TargetSensors < 1 {
		return fmt.Errorf("%w: target sensors must be at least 1, got %d", ErrConfig, p.TargetSensors)
	}
	if p.TargetSensors > inventory {
		return fmt.Errorf("%w: target sensors %d exceeds bin inventory %d", ErrConfig, p.TargetSensors, inventory)
	}
	if p.MinSpacingMeters < 0 {
		return fmt.Errorf("%w: minimum spacing must not be negative, got %f", ErrConfig, p.MinSpacingMeters)
	}
	if p.Categories < 1 {
		return fmt.Errorf("%w: category count must be at least 1, got %d", ErrConfig, p.Categories)
	}
	if p.CategoryWeights != nil {
		sum := 0.0
		for c, w := range p.CategoryWeights {
			if w < 0 {
				return fmt.Errorf("%w: category %d weight must not be negative, got %f", ErrConfig, c, w)
			}
			sum += w
		}
		if math.Abs(sum-1) > 1e-6 {
			return fmt.Errorf("%w: category weights must sum to 1, got %f", ErrConfig, sum)
		}
	}
	return nil
}

// JoinBins assigns each bin to its nearest grid cell and copies over the
// cell's category, score, ward, road and estimates. Bins farther than twice
// the cell radius from every cell centroid are left unassigned (empty CellID)
// and take no part in optimization.
func JoinBins(bins []models.BinLocation, cells []models.HexCell, cellRadiusMeters float64) {
	cutoff := 2 * cellRadiusMeters
	for i := range bins {
		b := &bins[i]
		bestDist := math.Inf(1)
		var best *models.HexCell
		for j := range cells {
			d := spatial.HaversineDistance(b.Lat, b.Lon, cells[j].CenterLat, cells[j].CenterLon)
			if d < bestDist {
				bestDist = d
				best = &cells[j]
			}
		}
		if best == nil || bestDist > cutoff {
			b.CellID = ""
			continue
		}
		b.CellID = best.CellID
		b.FootfallCategory = best.FootfallCategory
		b.FootfallScore = best.FootfallScore
		b.Ward = best.Ward
		b.RoadName = best.RoadName
		b.EstimatedPeoplePerHour = best.EstimatedPeoplePerHour
		b.EstimatedBinFillRate = BinFillRate(best.EstimatedPeoplePerHour, b.CapacityLiters)
	}
}

// Optimize selects a subset of bins for sensor deployment. The target count
// is split across footfall categories by weight, then each category is filled
// greedily from its highest fill-rate bins subject to the minimum spacing
// constraint against everything already accepted. Categories that cannot meet
// their target under the constraint are reported as shortfalls; targets are
// never borrowed across categories.
func Optimize(bins []models.BinLocation, params OptimizeParams) (*models.SensorSelection, error) {
	if err := params.validate(len(bins)); err != nil {
		return nil, err
	}

	// Only bins joined to a cell are eligible.
	byCategory := make(map[int][]*models.BinLocation)
	eligible := 0
	for i := range bins {
		if bins[i].CellID == "" {
			continue
		}
		c := bins[i].FootfallCategory
		byCategory[c] = append(byCategory[c], &bins[i])
		eligible++
	}
	if eligible == 0 {
		return nil, fmt.Errorf("%w: no bins joined to the grid", ErrData)
	}
	if params.TargetSensors > eligible {
		return nil, fmt.Errorf("%w: target sensors %d exceeds joined bin count %d", ErrConfig, params.TargetSensors, eligible)
	}

	targets := allocateTargets(byCategory, params)

	// Process every allocated category in a stable order, busiest first. A
	// category with a target but no candidate bins still gets a shortfall
	// entry, so the allocation always accounts for the full target.
	categories := make([]int, 0, len(targets))
	for c := range targets {
		categories = append(categories, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(categories)))

	selection := &models.SensorSelection{Targets: targets}
	var accepted []*models.BinLocation
	for _, c := range categories {
		target := targets[c]
		if target == 0 {
			continue
		}
		candidates := byCategory[c]
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].EstimatedBinFillRate != candidates[j].EstimatedBinFillRate {
				return candidates[i].EstimatedBinFillRate > candidates[j].EstimatedBinFillRate
			}
			return candidates[i].BinID < candidates[j].BinID
		})

		taken := 0
		for _, cand := range candidates {
			if taken == target {
				break
			}
			if !farEnough(cand, accepted, params.MinSpacingMeters) {
				continue
			}
			accepted = append(accepted, cand)
			taken++
		}
		if taken < target {
			selection.Shortfalls = append(selection.Shortfalls, models.CategoryShortfall{
				Category: c,
				Target:   target,
				Selected: taken,
			})
		}
	}
	sort.Slice(selection.Shortfalls, func(i, j int) bool {
		return selection.Shortfalls[i].Category < selection.Shortfalls[j].Category
	})

	// Rank the full selection by composite score.
	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].FootfallScore != accepted[j].FootfallScore {
			return accepted[i].FootfallScore > accepted[j].FootfallScore
		}
		return accepted[i].BinID < accepted[j].BinID
	})
	selection.Bins = make([]models.SelectedBin, len(accepted))
	for i, b := range accepted {
		selection.Bins[i] = models.SelectedBin{
			Rank:             i + 1,
			BinID:            b.BinID,
			FootfallCategory: b.FootfallCategory,
			FootfallScore:    b.FootfallScore,
		}
	}
	return selection, nil
}

// allocateTargets splits the total target across categories by weight, then
// fixes any rounding drift on the largest allocation so the sum is exact.
func allocateTargets(byCategory map[int][]*models.BinLocation, params OptimizeParams) map[int]int {
	weights := params.CategoryWeights
	if weights == nil {
		weights = make(map[int]float64, len(byCategory))
		total := 0.0
		for c, bins := range byCategory {
			w := math.Sqrt(float64(len(bins)))
			weights[c] = w
			total += w
		}
		for c := range weights {
			weights[c] /= total
		}
	}

	targets := make(map[int]int, len(weights))
	sum := 0
	largest := -1
	for c, w := range weights {
		t := int(math.Round(float64(params.TargetSensors) * w))
		targets[c] = t
		sum += t
		if largest < 0 || t > targets[largest] || (t == targets[largest] && c < largest) {
			largest = c
		}
	}
	if largest >= 0 && sum != params.TargetSensors {
		targets[largest] += params.TargetSensors - sum
		if targets[largest] < 0 {
			targets[largest] = 0
		}
	}
	return targets
}

func farEnough(cand *models.BinLocation, accepted []*models.BinLocation, minDist float64) bool {
	for _, a := range accepted {
		if spatial.HaversineDistance(cand.Lat, cand.Lon, a.Lat, a.Lon) < minDist {
			return false
		}
	}
	return true
}
