package footfall

// Derived footfall estimates, calibrated against typical London pedestrian
// counts (peak areas around 5000 people/hour, quiet residential streets
// under 100).

// categoryBases maps the eight-category ladder to a base people/hour figure.
var categoryBases = []float64{50, 150, 350, 700, 1200, 2000, 3500, 5000}

// Waste model assumptions behind the fill-rate estimate.
const (
	wastePerPersonKg    = 0.02
	wasteDensityKgPerL  = 0.1
	activeHoursPerDay   = 12
	defaultBinCapacityL = 240
	maxFillRatePercent  = 200 // bins can overflow
)

// PeoplePerHour estimates hourly pedestrian throughput for a cell from its
// composite score and category. The category picks a base figure; the score
// shifts it between -15% and +45% of that base.
func PeoplePerHour(score float64, category, categories int) float64 {
	if categories < 1 || category < 0 {
		return 0
	}
	// Map onto the eight-step base ladder when running with a different
	// category count.
	idx := category
	if categories != len(categoryBases) {
		idx = category * len(categoryBases) / categories
	}
	if idx > len(categoryBases)-1 {
		idx = len(categoryBases) - 1
	}

	base := categoryBases[idx]
	variation := base * 0.3 * (score*2 - 0.5)
	estimate := base + variation
	if estimate < 10 {
		return 10
	}
	return estimate
}

// BinFillRate estimates how fast a bin fills, as percent of capacity per
// day, from the hourly throughput of its cell. capacityLiters of 0 selects
// the standard 240 L bin.
func BinFillRate(peoplePerHour float64, capacityLiters int) float64 {
	if capacityLiters <= 0 {
		capacityLiters = defaultBinCapacityL
	}

	dailyWasteKg := peoplePerHour * activeHoursPerDay * wastePerPersonKg
	dailyWasteLiters := dailyWasteKg / wasteDensityKgPerL

	rate := dailyWasteLiters / float64(capacityLiters) * 100
	if rate > maxFillRatePercent {
		return maxFillRatePercent
	}
	return rate
}
