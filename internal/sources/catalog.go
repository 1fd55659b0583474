// Package sources provides the built-in footfall source catalog for the
// Westminster analysis region: transit stops with published usage figures,
// and deterministically generated street-stop corridors and licensed
// premises hotspots for areas where no open dataset is wired in yet.
package sources

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/binsight/footfall-backend-go/internal/models"
)

// Seeds for the generated datasets. Fixed so that repeated runs score
// identical source sets.
const (
	streetSeed   = 42
	premisesSeed = 43
	sampleSeed   = 44
)

// TransitStops returns the Westminster underground stations with annual
// usage in millions of entries/exits.
func TransitStops() []models.FootfallSource {
	stations := []struct {
		name  string
		lat   float64
		lon   float64
		usage float64
	}{
		{"Victoria", 51.4965, -0.1447, 82.0},
		{"Oxford Circus", 51.5152, -0.1418, 98.0},
		{"Paddington", 51.5154, -0.1755, 50.0},
		{"King's Cross St. Pancras", 51.5308, -0.1238, 97.0},
		{"Baker Street", 51.5226, -0.1571, 30.0},
		{"Westminster", 51.5010, -0.1254, 25.0},
		{"Green Park", 51.5067, -0.1428, 35.0},
		{"Piccadilly Circus", 51.5100, -0.1347, 40.0},
		{"Leicester Square", 51.5113, -0.1281, 35.0},
		{"Tottenham Court Road", 51.5165, -0.1310, 32.0},
		{"Bond Street", 51.5142, -0.1494, 28.0},
		{"Marble Arch", 51.5136, -0.1586, 18.0},
		{"Hyde Park Corner", 51.5027, -0.1527, 12.0},
		{"Knightsbridge", 51.5015, -0.1607, 15.0},
		{"Pimlico", 51.4893, -0.1334, 8.0},
		{"St. James's Park", 51.4994, -0.1335, 10.0},
		{"Charing Cross", 51.5074, -0.1270, 15.0},
		{"Embankment", 51.5074, -0.1223, 18.0},
		{"Covent Garden", 51.5129, -0.1243, 20.0},
		{"Holborn", 51.5174, -0.1200, 25.0},
		{"Warren Street", 51.5247, -0.1384, 12.0},
		{"Great Portland Street", 51.5238, -0.1439, 8.0},
		{"Regent's Park", 51.5234, -0.1466, 6.0},
		{"Edgware Road (Bakerloo)", 51.5199, -0.1679, 7.0},
		{"Edgware Road (Circle)", 51.5203, -0.1680, 8.0},
		{"Marylebone", 51.5225, -0.1631, 15.0},
		{"Lancaster Gate", 51.5119, -0.1756, 8.0},
		{"Queensway", 51.5107, -0.1871, 10.0},
		{"Bayswater", 51.5122, -0.1879, 7.0},
		{"Warwick Avenue", 51.5235, -0.1835, 5.0},
		{"Maida Vale", 51.5298, -0.1854, 4.0},
	}

	out := make([]models.FootfallSource, 0, len(stations))
	for i, s := range stations {
		out = append(out, models.FootfallSource{
			ID:        fmt.Sprintf("TS%04d", i),
			Type:      models.SourceTransit,
			Name:      s.name,
			Lat:       s.lat,
			Lon:       s.lon,
			Intensity: s.usage,
		})
	}
	return out
}

// corridor describes a high-frequency street-stop run along a road.
type corridor struct {
	name     string
	fixed    float64    // lat for horizontal corridors, lon for vertical
	span     [2]float64 // lon range for horizontal, lat range for vertical
	freq     float64    // services per hour
	vertical bool
}

// StreetStops returns generated street-level stops along the major
// corridors plus scattered local stops, with service frequency as the
// intensity measure.
func StreetStops(minLat, maxLat, minLon, maxLon float64) []models.FootfallSource {
	rng := rand.New(rand.NewSource(streetSeed))

	corridors := []corridor{
		{"Oxford Street", 51.5154, [2]float64{-0.16, -0.13}, 60, false},
		{"Piccadilly", 51.5088, [2]float64{-0.17, -0.13}, 45, false},
		{"Victoria Street", 51.4985, [2]float64{-0.145, -0.125}, 40, false},
		{"Edgware Road", -0.1679, [2]float64{51.50, 51.53}, 35, true},
		{"Park Lane", -0.1510, [2]float64{51.50, 51.52}, 30, true},
		{"Whitehall", -0.1265, [2]float64{51.50, 51.51}, 35, true},
		{"Regent Street", -0.1400, [2]float64{51.51, 51.52}, 40, true},
		{"Strand", 51.5108, [2]float64{-0.13, -0.12}, 45, false},
		{"Marylebone Road", 51.5225, [2]float64{-0.18, -0.13}, 35, false},
	}

	var out []models.FootfallSource
	id := 0
	add := func(name string, lat, lon, freq float64) {
		out = append(out, models.FootfallSource{
			ID:        fmt.Sprintf("SS%04d", id),
			Type:      models.SourceStreet,
			Name:      name,
			Lat:       lat,
			Lon:       lon,
			Intensity: freq,
		})
		id++
	}

	for _, c := range corridors {
		if c.vertical {
			for i := 0; i < 6; i++ {
				lat := c.span[0] + (c.span[1]-c.span[0])*float64(i)/5
				lon := c.fixed + jitter(rng, 0.001)
				add(c.name, lat, lon, c.freq+float64(rng.Intn(11)-5))
			}
		} else {
			for i := 0; i < 8; i++ {
				lon := c.span[0] + (c.span[1]-c.span[0])*float64(i)/7
				lat := c.fixed + jitter(rng, 0.001)
				add(c.name, lat, lon, c.freq+float64(rng.Intn(11)-5))
			}
		}
	}

	// Scattered low-frequency local stops across the region interior.
	for i := 0; i < 150; i++ {
		lat := minLat + 0.01 + rng.Float64()*(maxLat-minLat-0.02)
		lon := minLon + 0.01 + rng.Float64()*(maxLon-minLon-0.02)
		add("Local", lat, lon, float64(5+rng.Intn(21)))
	}

	return out
}

// hotspot describes a cluster of licensed premises around a nightlife or
// commercial centre.
type hotspot struct {
	name   string
	lat    float64
	lon    float64
	radius float64 // degrees
	count  int
}

// premisesKind holds the name, selection weight and capacity range of one
// premises type.
type premisesKind struct {
	name     string
	weight   float64
	capacity [2]int
}

// LicensedPremises returns generated licensed premises clustered around the
// Westminster hotspots, with seated capacity as the intensity measure.
func LicensedPremises() []models.FootfallSource {
	rng := rand.New(rand.NewSource(premisesSeed))

	hotspots := []hotspot{
		{"Soho", 51.5136, -0.1340, 0.008, 150},
		{"Covent Garden", 51.5117, -0.1240, 0.006, 100},
		{"Leicester Square", 51.5105, -0.1300, 0.005, 80},
		{"West End Theatre", 51.5115, -0.1260, 0.007, 60},
		{"Mayfair", 51.5095, -0.1470, 0.010, 70},
		{"Fitzrovia", 51.5190, -0.1380, 0.007, 50},
		{"Marylebone", 51.5200, -0.1550, 0.008, 45},
		{"Victoria", 51.4970, -0.1440, 0.007, 55},
		{"Pimlico", 51.4880, -0.1350, 0.008, 30},
		{"Paddington", 51.5165, -0.1780, 0.008, 40},
		{"Bayswater", 51.5115, -0.1870, 0.007, 35},
		{"Chinatown", 51.5112, -0.1310, 0.003, 90},
		{"St James", 51.5060, -0.1380, 0.006, 40},
	}

	kinds := []premisesKind{
		{"Restaurant", 0.35, [2]int{30, 150}},
		{"Pub", 0.25, [2]int{50, 200}},
		{"Bar", 0.20, [2]int{40, 150}},
		{"Club", 0.05, [2]int{100, 500}},
		{"Cafe", 0.10, [2]int{15, 60}},
		{"Hotel Bar", 0.05, [2]int{30, 100}},
	}

	var out []models.FootfallSource
	id := 0
	for _, h := range hotspots {
		for i := 0; i < h.count; i++ {
			angle := rng.Float64() * 2 * math.Pi
			r := h.radius * math.Sqrt(rng.Float64())
			lat := h.lat + r*math.Cos(angle)
			lon := h.lon + r*math.Sin(angle)

			kind := pickKind(rng, kinds)
			capacity := kind.capacity[0] + rng.Intn(kind.capacity[1]-kind.capacity[0]+1)

			out = append(out, models.FootfallSource{
				ID:        fmt.Sprintf("LP%05d", id),
				Type:      models.SourcePremises,
				Name:      fmt.Sprintf("%s (%s)", kind.name, h.name),
				Lat:       lat,
				Lon:       lon,
				Intensity: float64(capacity),
			})
			id++
		}
	}
	return out
}

// SampleBins generates a synthetic bin inventory for use when no real
// inventory has been imported: two thirds spread uniformly, one third
// clustered around the busiest hotspots.
func SampleBins(n int, minLat, maxLat, minLon, maxLon float64) []models.BinLocation {
	rng := rand.New(rand.NewSource(sampleSeed))

	clusters := [][2]float64{
		{51.5154, -0.1418}, // Oxford Circus
		{51.4965, -0.1447}, // Victoria
		{51.5117, -0.1240}, // Covent Garden
	}
	types := []string{"General Waste", "Recycling", "Food Waste"}
	capacities := []int{120, 240, 360, 1100}

	bins := make([]models.BinLocation, 0, n)
	for i := 0; i < n; i++ {
		var lat, lon float64
		if i < n/3 {
			c := clusters[rng.Intn(len(clusters))]
			lat = c[0] + rng.NormFloat64()*0.003
			lon = c[1] + rng.NormFloat64()*0.003
		} else {
			lat = minLat + rng.Float64()*(maxLat-minLat)
			lon = minLon + rng.Float64()*(maxLon-minLon)
		}
		bins = append(bins, models.BinLocation{
			BinID:          fmt.Sprintf("BIN%05d", i),
			Lat:            lat,
			Lon:            lon,
			BinType:        types[rng.Intn(len(types))],
			CapacityLiters: capacities[rng.Intn(len(capacities))],
		})
	}
	return bins
}

func jitter(rng *rand.Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}

func pickKind(rng *rand.Rand, kinds []premisesKind) premisesKind {
	x := rng.Float64()
	acc := 0.0
	for _, k := range kinds {
		acc += k.weight
		if x < acc {
			return k
		}
	}
	return kinds[len(kinds)-1]
}
