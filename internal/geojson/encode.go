// Package geojson renders analysis artifacts as GeoJSON feature collections
// for the HTTP API. Property names are part of the external contract and must
// stay stable.
package geojson

import (
	gj "github.com/paulmach/go.geojson"

	"github.com/binsight/footfall-backend-go/internal/models"
)

// CellCollection renders the hex grid. When source names a footfall source
// type, highlight_score carries that source's sub-score; otherwise it carries
// the composite score.
func CellCollection(cells []models.HexCell, source models.SourceType) *gj.FeatureCollection {
	fc := gj.NewFeatureCollection()
	for i := range cells {
		cell := &cells[i]
		ring := make([][]float64, len(cell.Boundary))
		for j, v := range cell.Boundary {
			ring[j] = []float64{v[0], v[1]}
		}
		f := gj.NewPolygonFeature([][][]float64{ring})
		f.ID = cell.CellID

		highlight := cell.FootfallScore
		if source != "" {
			highlight = cell.SubScore(source)
		}
		f.Properties = map[string]interface{}{
			"cell_id":                   cell.CellID,
			"footfall_score":            cell.FootfallScore,
			"footfall_category":         cell.FootfallCategory,
			"footfall_category_name":    cell.FootfallCategoryName,
			"highlight_score":           highlight,
			"transit_score":             cell.TransitScore,
			"street_score":              cell.StreetScore,
			"premises_score":            cell.PremisesScore,
			"ward":                      cell.Ward,
			"road_name":                 cell.RoadName,
			"estimated_people_per_hour": cell.EstimatedPeoplePerHour,
			"estimated_bin_fill_rate":   cell.EstimatedBinFillRate,
		}
		fc.AddFeature(f)
	}
	return fc
}

// BinCollection renders the full bin inventory. Bins chosen by the optimizer
// carry selected=true and their rank.
func BinCollection(bins []models.BinLocation, selection *models.SensorSelection) *gj.FeatureCollection {
	fc := gj.NewFeatureCollection()
	for i := range bins {
		fc.AddFeature(binFeature(&bins[i], selection))
	}
	return fc
}

// SelectionCollection renders only the bins chosen for sensor deployment,
// ordered by rank.
func SelectionCollection(bins []models.BinLocation, selection *models.SensorSelection) *gj.FeatureCollection {
	fc := gj.NewFeatureCollection()
	if selection == nil {
		return fc
	}
	byID := make(map[string]*models.BinLocation, len(bins))
	for i := range bins {
		byID[bins[i].BinID] = &bins[i]
	}
	for _, sel := range selection.Bins {
		bin, ok := byID[sel.BinID]
		if !ok {
			continue
		}
		fc.AddFeature(binFeature(bin, selection))
	}
	return fc
}

// SourceCollection renders footfall source points.
func SourceCollection(srcs []models.FootfallSource) *gj.FeatureCollection {
	fc := gj.NewFeatureCollection()
	for _, s := range srcs {
		f := gj.NewPointFeature([]float64{s.Lon, s.Lat})
		f.ID = s.ID
		f.Properties = map[string]interface{}{
			"source_id":   s.ID,
			"source_type": string(s.Type),
			"name":        s.Name,
			"intensity":   s.Intensity,
		}
		fc.AddFeature(f)
	}
	return fc
}

func binFeature(bin *models.BinLocation, selection *models.SensorSelection) *gj.Feature {
	f := gj.NewPointFeature([]float64{bin.Lon, bin.Lat})
	f.ID = bin.BinID
	props := map[string]interface{}{
		"bin_id":                    bin.BinID,
		"bin_type":                  bin.BinType,
		"capacity_liters":           bin.CapacityLiters,
		"cell_id":                   bin.CellID,
		"footfall_category":         bin.FootfallCategory,
		"footfall_score":            bin.FootfallScore,
		"ward":                      bin.Ward,
		"road_name":                 bin.RoadName,
		"estimated_people_per_hour": bin.EstimatedPeoplePerHour,
		"estimated_bin_fill_rate":   bin.EstimatedBinFillRate,
		"selected_for_sensor":       false,
	}
	if selection != nil {
		if sel, ok := selection.Selected(bin.BinID); ok {
			props["selected_for_sensor"] = true
			props["selection_rank"] = sel.Rank
		}
	}
	f.Properties = props
	return f
}
