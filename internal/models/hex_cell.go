package models

// HexCell represents one hexagonal cell of the analysis grid.
// Cells are created by the grid builder, scored and categorized during a
// single analysis run, and immutable once the run completes.
type HexCell struct {
	// Cell identification. Format: "H{radius}_{q}_{r}" (offset lattice coordinates),
	// stable for identical region + resolution across runs.
	CellID string `json:"cell_id" db:"cell_id"`
	Q      int    `json:"q" db:"q"`
	R      int    `json:"r" db:"r"`

	// Geometry
	CenterLat float64      `json:"center_lat" db:"center_lat"`
	CenterLon float64      `json:"center_lon" db:"center_lon"`
	Boundary  [][2]float64 `json:"boundary"` // closed ring, [lon, lat] pairs

	// Normalized per-type sub-scores, all in 0~1
	TransitScore  float64 `json:"transit_score" db:"transit_score"`
	StreetScore   float64 `json:"street_score" db:"street_score"`
	PremisesScore float64 `json:"premises_score" db:"premises_score"`

	// Weighted composite, 0~1
	FootfallScore float64 `json:"footfall_score" db:"footfall_score"`

	// Quantile category, 0..N-1
	FootfallCategory     int    `json:"footfall_category" db:"footfall_category"`
	FootfallCategoryName string `json:"footfall_category_name" db:"footfall_category_name"`

	// Administrative enrichment
	Ward     string `json:"ward,omitempty" db:"ward"`
	RoadName string `json:"road_name,omitempty" db:"road_name"`

	// Derived estimates
	EstimatedPeoplePerHour float64 `json:"estimated_people_per_hour" db:"estimated_people_per_hour"`
	EstimatedBinFillRate   float64 `json:"estimated_bin_fill_rate" db:"estimated_bin_fill_rate"` // % per day
}

// SubScore returns the normalized sub-score for the given source type.
func (c *HexCell) SubScore(t SourceType) float64 {
	switch t {
	case SourceTransit:
		return c.TransitScore
	case SourceStreet:
		return c.StreetScore
	case SourcePremises:
		return c.PremisesScore
	}
	return 0
}

// SetSubScore stores the normalized sub-score for the given source type.
func (c *HexCell) SetSubScore(t SourceType, v float64) {
	switch t {
	case SourceTransit:
		c.TransitScore = v
	case SourceStreet:
		c.StreetScore = v
	case SourcePremises:
		c.PremisesScore = v
	}
}

// CategoryBand records the composite-score range observed within one
// category, for display and threshold filtering by consumers.
type CategoryBand struct {
	Category  int     `json:"category"`
	Name      string  `json:"name"`
	CellCount int     `json:"cell_count"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`
}
