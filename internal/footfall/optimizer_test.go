package footfall

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binsight/footfall-backend-go/internal/models"
	"github.com/binsight/footfall-backend-go/internal/spatial"
)

// binGrid lays out nBins joined bins on a regular lattice, cycling through
// the given categories, spaced roughly spacingMeters apart.
func binGrid(nBins int, categories int, spacingMeters float64) []models.BinLocation {
	bins := make([]models.BinLocation, nBins)
	perRow := 20
	latStep := spacingMeters / 111320.0
	lonStep := spacingMeters / 111320.0 / 0.6225
	for i := range bins {
		cat := i % categories
		bins[i] = models.BinLocation{
			BinID:                string(rune('A'+i/perRow)) + fmt.Sprintf("%03d", i%perRow),
			Lat:                  51.5 + float64(i/perRow)*latStep,
			Lon:                  -0.14 + float64(i%perRow)*lonStep,
			CellID:               fmt.Sprintf("H60_%d_0", i),
			FootfallCategory:     cat,
			FootfallScore:        float64(i) / float64(nBins),
			EstimatedBinFillRate: float64(cat*10 + i%10),
		}
	}
	return bins
}

func TestOptimize(t *testing.T) {
	t.Parallel()

	t.Run("selects exactly the target count when space allows", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(200, 4, 100)
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    40,
			MinSpacingMeters: 10,
			Categories:       4,
		})
		require.NoError(t, err)

		assert.Len(t, sel.Bins, 40)
		assert.Empty(t, sel.Shortfalls)
	})

	t.Run("category targets sum to the total target", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(300, 8, 100)
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    97, // awkward total to force rounding adjustment
			MinSpacingMeters: 10,
			Categories:       8,
		})
		require.NoError(t, err)

		sum := 0
		for _, target := range sel.Targets {
			sum += target
		}
		assert.Equal(t, 97, sum)
	})

	t.Run("explicit weights steer the allocation", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(200, 2, 100)
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    50,
			MinSpacingMeters: 10,
			Categories:       2,
			CategoryWeights:  map[int]float64{0: 0.2, 1: 0.8},
		})
		require.NoError(t, err)

		assert.Equal(t, 10, sel.Targets[0])
		assert.Equal(t, 40, sel.Targets[1])
	})

	t.Run("a weighted category with no bins becomes a full shortfall", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(200, 2, 100) // categories 0 and 1 only
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    10,
			MinSpacingMeters: 10,
			Categories:       4,
			CategoryWeights:  map[int]float64{0: 0.2, 3: 0.8},
		})
		require.NoError(t, err)

		assert.Len(t, sel.Bins, 2)
		require.Len(t, sel.Shortfalls, 1)
		assert.Equal(t, 3, sel.Shortfalls[0].Category)
		assert.Equal(t, 8, sel.Shortfalls[0].Target)
		assert.Equal(t, 0, sel.Shortfalls[0].Selected)

		sum := 0
		for _, target := range sel.Targets {
			sum += target
		}
		assert.Equal(t, 10, sum)
	})

	t.Run("rejects malformed explicit weights", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(50, 2, 100)

		_, err := Optimize(bins, OptimizeParams{
			TargetSensors:    10,
			MinSpacingMeters: 10,
			Categories:       2,
			CategoryWeights:  map[int]float64{0: 0.3, 1: 0.3},
		})
		require.ErrorIs(t, err, ErrConfig)

		_, err = Optimize(bins, OptimizeParams{
			TargetSensors:    10,
			MinSpacingMeters: 10,
			Categories:       2,
			CategoryWeights:  map[int]float64{0: -0.5, 1: 1.5},
		})
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("selected bins honour the minimum spacing", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(200, 4, 60)
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    30,
			MinSpacingMeters: 70,
			Categories:       4,
		})
		require.NoError(t, err)

		byID := make(map[string]models.BinLocation)
		for _, b := range bins {
			byID[b.BinID] = b
		}
		for i, a := range sel.Bins {
			for _, b := range sel.Bins[i+1:] {
				ba, bb := byID[a.BinID], byID[b.BinID]
				d := spatial.HaversineDistance(ba.Lat, ba.Lon, bb.Lat, bb.Lon)
				assert.GreaterOrEqual(t, d, 70.0,
					"bins %s and %s are %f m apart", a.BinID, b.BinID, d)
			}
		}
	})

	t.Run("records shortfalls instead of borrowing across categories", func(t *testing.T) {
		t.Parallel()
		// Two tight clusters per category: spacing forces most candidates out.
		bins := binGrid(40, 2, 5)
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    30,
			MinSpacingMeters: 500,
			Categories:       2,
		})
		require.NoError(t, err)

		assert.Less(t, len(sel.Bins), 30)
		require.NotEmpty(t, sel.Shortfalls)
		for _, sf := range sel.Shortfalls {
			assert.Less(t, sf.Selected, sf.Target)
			assert.LessOrEqual(t, sel.Targets[sf.Category], sf.Target)
		}
	})

	t.Run("ranks follow composite score descending", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(100, 4, 100)
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    20,
			MinSpacingMeters: 10,
			Categories:       4,
		})
		require.NoError(t, err)

		for i, b := range sel.Bins {
			assert.Equal(t, i+1, b.Rank)
			if i > 0 {
				assert.LessOrEqual(t, b.FootfallScore, sel.Bins[i-1].FootfallScore)
			}
		}
	})

	t.Run("unjoined bins are excluded", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(50, 2, 100)
		for i := 40; i < 50; i++ {
			bins[i].CellID = ""
		}
		sel, err := Optimize(bins, OptimizeParams{
			TargetSensors:    40,
			MinSpacingMeters: 1,
			Categories:       2,
		})
		require.NoError(t, err)

		unjoined := make(map[string]bool)
		for i := 40; i < 50; i++ {
			unjoined[bins[i].BinID] = true
		}
		for _, b := range sel.Bins {
			assert.False(t, unjoined[b.BinID], "unjoined bin %s was selected", b.BinID)
		}
	})

	t.Run("rejects a target above the inventory", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(10, 2, 100)
		_, err := Optimize(bins, OptimizeParams{
			TargetSensors:    11,
			MinSpacingMeters: 10,
			Categories:       2,
		})
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		t.Parallel()
		bins := binGrid(10, 2, 100)

		_, err := Optimize(bins, OptimizeParams{TargetSensors: 0, Categories: 2})
		assert.ErrorIs(t, err, ErrConfig)

		_, err = Optimize(bins, OptimizeParams{TargetSensors: 5, MinSpacingMeters: -1, Categories: 2})
		assert.ErrorIs(t, err, ErrConfig)

		_, err = Optimize(bins, OptimizeParams{TargetSensors: 5, Categories: 0})
		assert.ErrorIs(t, err, ErrConfig)
	})
}

func TestJoinBins(t *testing.T) {
	t.Parallel()

	cells := []models.HexCell{
		{
			CellID: "H60_0_0", CenterLat: 51.500, CenterLon: -0.140,
			FootfallCategory: 3, FootfallScore: 0.6, Ward: "St James's",
			RoadName: "Regent Street", EstimatedPeoplePerHour: 700,
		},
		{
			CellID: "H60_1_0", CenterLat: 51.505, CenterLon: -0.140,
			FootfallCategory: 1, FootfallScore: 0.2, Ward: "Marylebone",
			RoadName: "Baker Street", EstimatedPeoplePerHour: 150,
		},
	}

	t.Run("assigns the nearest cell and inherits its attributes", func(t *testing.T) {
		t.Parallel()
		bins := []models.BinLocation{
			{BinID: "B1", Lat: 51.5001, Lon: -0.1401},
			{BinID: "B2", Lat: 51.5049, Lon: -0.1399},
		}
		JoinBins(bins, cells, 60)

		assert.Equal(t, "H60_0_0", bins[0].CellID)
		assert.Equal(t, 3, bins[0].FootfallCategory)
		assert.Equal(t, "St James's", bins[0].Ward)
		assert.Equal(t, "Regent Street", bins[0].RoadName)
		assert.Greater(t, bins[0].EstimatedBinFillRate, 0.0)

		assert.Equal(t, "H60_1_0", bins[1].CellID)
		assert.Equal(t, "Baker Street", bins[1].RoadName)
	})

	t.Run("bins beyond twice the cell radius stay unassigned", func(t *testing.T) {
		t.Parallel()
		bins := []models.BinLocation{
			{BinID: "FAR", Lat: 51.52, Lon: -0.14}, // ~1.7 km from the nearest cell
		}
		JoinBins(bins, cells, 60)

		assert.Empty(t, bins[0].CellID)
		assert.Zero(t, bins[0].FootfallScore)
	})
}
