package models

// BinLocation is one waste bin from the imported inventory, joined to its
// nearest grid cell during an analysis run.
type BinLocation struct {
	BinID          string  `json:"bin_id" db:"bin_id"`
	Lat            float64 `json:"lat" db:"lat"`
	Lon            float64 `json:"lon" db:"lon"`
	BinType        string  `json:"bin_type,omitempty" db:"bin_type"`
	CapacityLiters int     `json:"capacity_liters,omitempty" db:"capacity_liters"`

	// Nearest-cell join results. CellID is empty for bins outside the grid.
	CellID           string  `json:"cell_id,omitempty" db:"cell_id"`
	FootfallCategory int     `json:"footfall_category" db:"footfall_category"`
	FootfallScore    float64 `json:"footfall_score" db:"footfall_score"`
	Ward             string  `json:"ward,omitempty" db:"ward"`
	RoadName         string  `json:"road_name,omitempty" db:"road_name"`

	EstimatedPeoplePerHour float64 `json:"estimated_people_per_hour" db:"estimated_people_per_hour"`
	EstimatedBinFillRate   float64 `json:"estimated_bin_fill_rate" db:"estimated_bin_fill_rate"`
}

// SelectedBin is one entry of a sensor selection: a bin chosen for sensor
// deployment together with its overall rank.
type SelectedBin struct {
	Rank             int     `json:"rank"`
	BinID            string  `json:"bin_id"`
	FootfallCategory int     `json:"footfall_category"`
	FootfallScore    float64 `json:"footfall_score"`
}

// CategoryShortfall records a category whose sensor target could not be met
// under the minimum-distance constraint. Non-fatal; surfaced as a warning.
type CategoryShortfall struct {
	Category int `json:"category"`
	Target   int `json:"target"`
	Selected int `json:"selected"`
}

// SensorSelection is the optimizer output: the ordered subset of bins chosen
// for sensor deployment. Immutable once produced.
type SensorSelection struct {
	Bins       []SelectedBin       `json:"bins"`
	Targets    map[int]int         `json:"targets"`    // category -> target count
	Shortfalls []CategoryShortfall `json:"shortfalls"` // empty when all targets met
}

// Selected reports whether the given bin ID is part of the selection.
func (s *SensorSelection) Selected(binID string) (SelectedBin, bool) {
	for _, b := range s.Bins {
		if b.BinID == binID {
			return b, true
		}
	}
	return SelectedBin{}, false
}
