package service

import (
	"math"
	"sort"

	"github.com/binsight/footfall-backend-go/internal/stats"
)

// WardRoadSummary aggregates grid cells of one road within a ward.
type WardRoadSummary struct {
	Road               string  `json:"road"`
	CellCount          int     `json:"cell_count"`
	TotalPeoplePerHour float64 `json:"total_people_per_hour"`
	AvgFillRate        float64 `json:"avg_fill_rate"`
	SensorCount        int     `json:"sensor_count"`
}

// WardSummary aggregates grid cells and deployed sensors of one ward.
type WardSummary struct {
	Ward               string            `json:"ward"`
	CellCount          int               `json:"cell_count"`
	TotalPeoplePerHour float64           `json:"total_people_per_hour"`
	AvgFillRate        float64           `json:"avg_fill_rate"`
	Categories         map[int]int       `json:"categories"`
	Roads              []WardRoadSummary `json:"roads"`
	SensorCount        int               `json:"sensor_count"`
}

// SummaryTotals carries region-wide aggregates across all wards.
type SummaryTotals struct {
	TotalPeoplePerHour float64 `json:"total_people_per_hour"`
	AvgFillRate        float64 `json:"avg_fill_rate"`
	TotalSensors       int     `json:"total_sensors"`
	WardCount          int     `json:"ward_count"`
}

// WardSummaryReport is the /summary/wards payload.
type WardSummaryReport struct {
	Wards  []WardSummary `json:"wards"`
	Totals SummaryTotals `json:"totals"`
}

// SensorBinEntry is one deployed sensor within a road group.
type SensorBinEntry struct {
	BinID    string  `json:"bin_id"`
	Rank     int     `json:"rank"`
	FillRate float64 `json:"fill_rate"`
}

// SensorRoadSummary groups deployed sensors by road within a ward.
type SensorRoadSummary struct {
	Road               string           `json:"road"`
	SensorCount        int              `json:"sensor_count"`
	TotalPeoplePerHour float64          `json:"total_people_per_hour"`
	AvgFillRate        float64          `json:"avg_fill_rate"`
	Bins               []SensorBinEntry `json:"bins"`
}

// SensorWardSummary groups deployed sensors by ward.
type SensorWardSummary struct {
	Ward               string              `json:"ward"`
	SensorCount        int                 `json:"sensor_count"`
	TotalPeoplePerHour float64             `json:"total_people_per_hour"`
	AvgFillRate        float64             `json:"avg_fill_rate"`
	Categories         map[int]int         `json:"categories"`
	Roads              []SensorRoadSummary `json:"roads"`
}

// SensorSummaryReport is the /summary/sensors payload.
type SensorSummaryReport struct {
	Wards  []SensorWardSummary `json:"wards"`
	Totals SummaryTotals       `json:"totals"`
}

// SummaryService builds ward and sensor reports from the latest artifacts.
type SummaryService struct {
	analysis *AnalysisService
}

// NewSummaryService creates a summary service backed by the analysis service.
func NewSummaryService(analysis *AnalysisService) *SummaryService {
	return &SummaryService{analysis: analysis}
}

const unknownName = "Unknown"

// WardSummaries aggregates the grid by ward: throughput totals, fill-rate
// averages, category mix and the top 15 roads per ward by throughput.
func (s *SummaryService) WardSummaries() *WardSummaryReport {
	report := &WardSummaryReport{Wards: []WardSummary{}}
	a := s.analysis.Artifacts()
	if a == nil {
		return report
	}

	type roadAcc struct {
		WardRoadSummary
		fillRates []float64
	}
	type wardAcc struct {
		WardSummary
		fillRates []float64
		roads     map[string]*roadAcc
	}

	wards := make(map[string]*wardAcc)
	for i := range a.Cells {
		c := &a.Cells[i]
		wardName := orUnknown(c.Ward)
		w, ok := wards[wardName]
		if !ok {
			w = &wardAcc{
				WardSummary: WardSummary{Ward: wardName, Categories: map[int]int{}},
				roads:       map[string]*roadAcc{},
			}
			wards[wardName] = w
		}
		w.CellCount++
		w.TotalPeoplePerHour += c.EstimatedPeoplePerHour
		w.fillRates = append(w.fillRates, c.EstimatedBinFillRate)
		w.Categories[c.FootfallCategory]++

		roadName := orUnknown(c.RoadName)
		r, ok := w.roads[roadName]
		if !ok {
			r = &roadAcc{WardRoadSummary: WardRoadSummary{Road: roadName}}
			w.roads[roadName] = r
		}
		r.CellCount++
		r.TotalPeoplePerHour += c.EstimatedPeoplePerHour
		r.fillRates = append(r.fillRates, c.EstimatedBinFillRate)
	}

	// Count deployed sensors per ward and road.
	if a.Selection != nil {
		for i := range a.Bins {
			b := &a.Bins[i]
			if _, ok := a.Selection.Selected(b.BinID); !ok {
				continue
			}
			if w, ok := wards[orUnknown(b.Ward)]; ok {
				w.SensorCount++
				if r, ok := w.roads[orUnknown(b.RoadName)]; ok {
					r.SensorCount++
				}
			}
		}
	}

	var fillRateAvgs []float64
	for _, w := range wards {
		w.AvgFillRate = stats.Mean(w.fillRates)
		for _, r := range w.roads {
			r.AvgFillRate = stats.Mean(r.fillRates)
			w.Roads = append(w.Roads, r.WardRoadSummary)
		}
		sort.Slice(w.Roads, func(i, j int) bool {
			if w.Roads[i].TotalPeoplePerHour != w.Roads[j].TotalPeoplePerHour {
				return w.Roads[i].TotalPeoplePerHour > w.Roads[j].TotalPeoplePerHour
			}
			return w.Roads[i].Road < w.Roads[j].Road
		})
		if len(w.Roads) > 15 {
			w.Roads = w.Roads[:15]
		}

		report.Totals.TotalPeoplePerHour += w.TotalPeoplePerHour
		report.Totals.TotalSensors += w.SensorCount
		fillRateAvgs = append(fillRateAvgs, w.AvgFillRate)
		report.Wards = append(report.Wards, w.WardSummary)
	}
	report.Totals.AvgFillRate = stats.Mean(fillRateAvgs)
	report.Totals.WardCount = len(report.Wards)

	sort.Slice(report.Wards, func(i, j int) bool {
		if report.Wards[i].TotalPeoplePerHour != report.Wards[j].TotalPeoplePerHour {
			return report.Wards[i].TotalPeoplePerHour > report.Wards[j].TotalPeoplePerHour
		}
		return report.Wards[i].Ward < report.Wards[j].Ward
	})
	return report
}

// SensorSummaries aggregates the deployed sensors by ward and road, keeping
// the top 10 roads per ward by sensor count and the top 5 ranked bins per
// road.
func (s *SummaryService) SensorSummaries() *SensorSummaryReport {
	report := &SensorSummaryReport{Wards: []SensorWardSummary{}}
	a := s.analysis.Artifacts()
	if a == nil || a.Selection == nil {
		return report
	}

	type roadAcc struct {
		SensorRoadSummary
		fillRates []float64
	}
	type wardAcc struct {
		SensorWardSummary
		fillRates []float64
		roads     map[string]*roadAcc
	}

	wards := make(map[string]*wardAcc)
	for i := range a.Bins {
		b := &a.Bins[i]
		sel, ok := a.Selection.Selected(b.BinID)
		if !ok {
			continue
		}
		wardName := orUnknown(b.Ward)
		w, ok := wards[wardName]
		if !ok {
			w = &wardAcc{
				SensorWardSummary: SensorWardSummary{Ward: wardName, Categories: map[int]int{}},
				roads:             map[string]*roadAcc{},
			}
			wards[wardName] = w
		}
		w.SensorCount++
		w.TotalPeoplePerHour += b.EstimatedPeoplePerHour
		w.fillRates = append(w.fillRates, b.EstimatedBinFillRate)
		w.Categories[b.FootfallCategory]++

		roadName := orUnknown(b.RoadName)
		r, ok := w.roads[roadName]
		if !ok {
			r = &roadAcc{SensorRoadSummary: SensorRoadSummary{Road: roadName}}
			w.roads[roadName] = r
		}
		r.SensorCount++
		r.TotalPeoplePerHour += b.EstimatedPeoplePerHour
		r.fillRates = append(r.fillRates, b.EstimatedBinFillRate)
		r.Bins = append(r.Bins, SensorBinEntry{
			BinID:    b.BinID,
			Rank:     sel.Rank,
			FillRate: math.Round(b.EstimatedBinFillRate*10) / 10,
		})
	}

	var fillRateAvgs []float64
	for _, w := range wards {
		w.AvgFillRate = stats.Mean(w.fillRates)
		for _, r := range w.roads {
			r.AvgFillRate = stats.Mean(r.fillRates)
			sort.Slice(r.Bins, func(i, j int) bool { return r.Bins[i].Rank < r.Bins[j].Rank })
			if len(r.Bins) > 5 {
				r.Bins = r.Bins[:5]
			}
			w.Roads = append(w.Roads, r.SensorRoadSummary)
		}
		sort.Slice(w.Roads, func(i, j int) bool {
			if w.Roads[i].SensorCount != w.Roads[j].SensorCount {
				return w.Roads[i].SensorCount > w.Roads[j].SensorCount
			}
			return w.Roads[i].Road < w.Roads[j].Road
		})
		if len(w.Roads) > 10 {
			w.Roads = w.Roads[:10]
		}

		report.Totals.TotalSensors += w.SensorCount
		report.Totals.TotalPeoplePerHour += w.TotalPeoplePerHour
		fillRateAvgs = append(fillRateAvgs, w.AvgFillRate)
		report.Wards = append(report.Wards, w.SensorWardSummary)
	}
	report.Totals.AvgFillRate = stats.Mean(fillRateAvgs)
	report.Totals.WardCount = len(report.Wards)

	sort.Slice(report.Wards, func(i, j int) bool {
		if report.Wards[i].SensorCount != report.Wards[j].SensorCount {
			return report.Wards[i].SensorCount > report.Wards[j].SensorCount
		}
		return report.Wards[i].Ward < report.Wards[j].Ward
	})
	return report
}

func orUnknown(s string) string {
	if s == "" {
		return unknownName
	}
	return s
}
