package footfall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binsight/footfall-backend-go/internal/models"
)

func defaultParams() ScoreParams {
	return ScoreParams{
		Weights: map[models.SourceType]float64{
			models.SourceTransit:  0.45,
			models.SourceStreet:   0.30,
			models.SourcePremises: 0.25,
		},
		Radii: map[models.SourceType]float64{
			models.SourceTransit:  500,
			models.SourceStreet:   200,
			models.SourcePremises: 150,
		},
	}
}

// lineOfCells builds cells spaced roughly stepMeters apart along a parallel.
func lineOfCells(n int, stepMeters float64) []models.HexCell {
	cells := make([]models.HexCell, n)
	for i := range cells {
		cells[i] = models.HexCell{
			CellID:    string(rune('A' + i)),
			CenterLat: 51.5,
			CenterLon: -0.14 + float64(i)*stepMeters/111320.0/0.6225, // ~cos(51.5 deg)
		}
	}
	return cells
}

func TestScore(t *testing.T) {
	t.Parallel()

	t.Run("single source peaks at the nearest cell", func(t *testing.T) {
		t.Parallel()
		cells := lineOfCells(5, 100) // furthest cell ~400 m, inside the transit radius
		srcs := []models.FootfallSource{{
			ID:        "T1",
			Type:      models.SourceTransit,
			Lat:       cells[0].CenterLat,
			Lon:       cells[0].CenterLon,
			Intensity: 1000,
		}}

		require.NoError(t, Score(cells, srcs, defaultParams()))

		assert.InDelta(t, 1.0, cells[0].TransitScore, 1e-9)
		assert.InDelta(t, 0.45, cells[0].FootfallScore, 1e-9)
		for i := 1; i < len(cells); i++ {
			assert.Less(t, cells[i].TransitScore, cells[i-1].TransitScore,
				"influence must decay with distance")
		}
	})

	t.Run("all scores stay within the unit interval", func(t *testing.T) {
		t.Parallel()
		cells := lineOfCells(20, 50)
		var srcs []models.FootfallSource
		for i := 0; i < 5; i++ {
			srcs = append(srcs,
				models.FootfallSource{ID: "T", Type: models.SourceTransit, Lat: 51.5, Lon: -0.14, Intensity: float64(100 * (i + 1))},
				models.FootfallSource{ID: "S", Type: models.SourceStreet, Lat: 51.5, Lon: -0.1395, Intensity: float64(50 * (i + 1))},
				models.FootfallSource{ID: "P", Type: models.SourcePremises, Lat: 51.5, Lon: -0.139, Intensity: float64(10 * (i + 1))},
			)
		}

		require.NoError(t, Score(cells, srcs, defaultParams()))

		for _, c := range cells {
			for _, score := range []float64{c.TransitScore, c.StreetScore, c.PremisesScore, c.FootfallScore} {
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
			}
		}
	})

	t.Run("sources beyond their radius contribute nothing", func(t *testing.T) {
		t.Parallel()
		cells := lineOfCells(1, 100)
		srcs := []models.FootfallSource{{
			ID:        "P1",
			Type:      models.SourcePremises,
			Lat:       cells[0].CenterLat + 0.05, // ~5.5 km north
			Lon:       cells[0].CenterLon,
			Intensity: 1000,
		}}

		require.NoError(t, Score(cells, srcs, defaultParams()))
		assert.Zero(t, cells[0].PremisesScore)
		assert.Zero(t, cells[0].FootfallScore)
	})

	t.Run("missing source type leaves sub-score zero", func(t *testing.T) {
		t.Parallel()
		cells := lineOfCells(3, 100)
		srcs := []models.FootfallSource{{
			ID: "T1", Type: models.SourceTransit,
			Lat: cells[0].CenterLat, Lon: cells[0].CenterLon, Intensity: 500,
		}}

		require.NoError(t, Score(cells, srcs, defaultParams()))
		for _, c := range cells {
			assert.Zero(t, c.StreetScore)
			assert.Zero(t, c.PremisesScore)
		}
	})

	t.Run("rejects bad configuration", func(t *testing.T) {
		t.Parallel()
		cells := lineOfCells(2, 100)

		p := defaultParams()
		p.Weights[models.SourceTransit] = 0.9 // sum now 1.45
		err := Score(cells, nil, p)
		assert.ErrorIs(t, err, ErrConfig)

		p = defaultParams()
		p.Weights[models.SourceStreet] = -0.1
		err = Score(cells, nil, p)
		assert.ErrorIs(t, err, ErrConfig)

		p = defaultParams()
		p.Radii[models.SourcePremises] = 0
		err = Score(cells, nil, p)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("rejects empty grid", func(t *testing.T) {
		t.Parallel()
		err := Score(nil, nil, defaultParams())
		assert.ErrorIs(t, err, ErrData)
	})

	t.Run("identical inputs yield identical scores and categories", func(t *testing.T) {
		t.Parallel()
		srcs := []models.FootfallSource{
			{ID: "T1", Type: models.SourceTransit, Lat: 51.5, Lon: -0.14, Intensity: 900},
			{ID: "T2", Type: models.SourceTransit, Lat: 51.5, Lon: -0.137, Intensity: 400},
			{ID: "S1", Type: models.SourceStreet, Lat: 51.5, Lon: -0.139, Intensity: 60},
			{ID: "P1", Type: models.SourcePremises, Lat: 51.5, Lon: -0.138, Intensity: 30},
		}

		run := func() []models.HexCell {
			cells := lineOfCells(24, 50)
			require.NoError(t, Score(cells, srcs, defaultParams()))
			_, err := Classify(cells, 4)
			require.NoError(t, err)
			return cells
		}

		first := run()
		second := run()
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].CellID, second[i].CellID)
			assert.Equal(t, first[i].TransitScore, second[i].TransitScore)
			assert.Equal(t, first[i].StreetScore, second[i].StreetScore)
			assert.Equal(t, first[i].PremisesScore, second[i].PremisesScore)
			assert.Equal(t, first[i].FootfallScore, second[i].FootfallScore)
			assert.Equal(t, first[i].FootfallCategory, second[i].FootfallCategory)
		}
	})
}
