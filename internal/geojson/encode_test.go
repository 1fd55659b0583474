package geojson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binsight/footfall-backend-go/internal/models"
)

func sampleCell() models.HexCell {
	return models.HexCell{
		CellID:    "H60_2_3",
		CenterLat: 51.505,
		CenterLon: -0.14,
		Boundary: [][2]float64{
			{-0.1405, 51.5045}, {-0.1395, 51.5045}, {-0.1390, 51.5050},
			{-0.1395, 51.5055}, {-0.1405, 51.5055}, {-0.1410, 51.5050},
			{-0.1405, 51.5045},
		},
		TransitScore:           0.8,
		StreetScore:            0.4,
		PremisesScore:          0.2,
		FootfallScore:          0.53,
		FootfallCategory:       5,
		FootfallCategoryName:   "High Footfall",
		Ward:                   "West End",
		RoadName:               "Oxford Street",
		EstimatedPeoplePerHour: 2000,
		EstimatedBinFillRate:   120,
	}
}

// The GeoJSON property names below are consumed by external map clients and
// must not change.
func TestCellCollection(t *testing.T) {
	t.Parallel()

	t.Run("emits polygon features with the full property set", func(t *testing.T) {
		t.Parallel()
		fc := CellCollection([]models.HexCell{sampleCell()}, "")
		require.Len(t, fc.Features, 1)

		f := fc.Features[0]
		require.NotNil(t, f.Geometry)
		assert.True(t, f.Geometry.IsPolygon())
		require.Len(t, f.Geometry.Polygon, 1)
		assert.Len(t, f.Geometry.Polygon[0], 7)

		for _, key := range []string{
			"cell_id", "footfall_score", "footfall_category", "footfall_category_name",
			"highlight_score", "transit_score", "street_score", "premises_score",
			"ward", "road_name", "estimated_people_per_hour", "estimated_bin_fill_rate",
		} {
			assert.Contains(t, f.Properties, key)
		}
		assert.Equal(t, "H60_2_3", f.Properties["cell_id"])
		assert.Equal(t, 0.53, f.Properties["highlight_score"])
	})

	t.Run("source filter switches the highlight score", func(t *testing.T) {
		t.Parallel()
		fc := CellCollection([]models.HexCell{sampleCell()}, models.SourceTransit)
		require.Len(t, fc.Features, 1)
		assert.Equal(t, 0.8, fc.Features[0].Properties["highlight_score"])
		// Composite stays available alongside the highlight.
		assert.Equal(t, 0.53, fc.Features[0].Properties["footfall_score"])
	})
}

func TestBinCollection(t *testing.T) {
	t.Parallel()

	bins := []models.BinLocation{
		{BinID: "B1", Lat: 51.50, Lon: -0.14, CellID: "H60_0_0", FootfallScore: 0.9},
		{BinID: "B2", Lat: 51.51, Lon: -0.15, CellID: "H60_1_0", FootfallScore: 0.3},
	}
	selection := &models.SensorSelection{
		Bins: []models.SelectedBin{{Rank: 1, BinID: "B1", FootfallScore: 0.9}},
	}

	t.Run("marks selected bins", func(t *testing.T) {
		t.Parallel()
		fc := BinCollection(bins, selection)
		require.Len(t, fc.Features, 2)

		assert.Equal(t, true, fc.Features[0].Properties["selected_for_sensor"])
		assert.Equal(t, 1, fc.Features[0].Properties["selection_rank"])
		assert.Equal(t, false, fc.Features[1].Properties["selected_for_sensor"])
		assert.NotContains(t, fc.Features[1].Properties, "selection_rank")
	})

	t.Run("point geometry is lon lat ordered", func(t *testing.T) {
		t.Parallel()
		fc := BinCollection(bins, nil)
		require.True(t, fc.Features[0].Geometry.IsPoint())
		assert.Equal(t, []float64{-0.14, 51.50}, fc.Features[0].Geometry.Point)
	})
}

func TestSelectionCollection(t *testing.T) {
	t.Parallel()

	bins := []models.BinLocation{
		{BinID: "B1", Lat: 51.50, Lon: -0.14},
		{BinID: "B2", Lat: 51.51, Lon: -0.15},
		{BinID: "B3", Lat: 51.52, Lon: -0.16},
	}
	selection := &models.SensorSelection{
		Bins: []models.SelectedBin{
			{Rank: 1, BinID: "B3"},
			{Rank: 2, BinID: "B1"},
		},
	}

	t.Run("contains only selected bins in rank order", func(t *testing.T) {
		t.Parallel()
		fc := SelectionCollection(bins, selection)
		require.Len(t, fc.Features, 2)
		assert.Equal(t, "B3", fc.Features[0].Properties["bin_id"])
		assert.Equal(t, "B1", fc.Features[1].Properties["bin_id"])
	})

	t.Run("nil selection yields an empty collection", func(t *testing.T) {
		t.Parallel()
		fc := SelectionCollection(bins, nil)
		assert.Empty(t, fc.Features)
	})
}

func TestSourceCollection(t *testing.T) {
	t.Parallel()

	srcs := []models.FootfallSource{
		{ID: "940GZZLUOXC", Type: models.SourceTransit, Name: "Oxford Circus", Lat: 51.515, Lon: -0.141, Intensity: 84000},
	}
	fc := SourceCollection(srcs)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "940GZZLUOXC", f.Properties["source_id"])
	assert.Equal(t, "transit", f.Properties["source_type"])
	assert.Equal(t, "Oxford Circus", f.Properties["name"])
	assert.Equal(t, 84000.0, f.Properties["intensity"])
}
