package sources

import (
	"math"
	"math/rand"

	"github.com/binsight/footfall-backend-go/internal/spatial"
)

// Ward is a named administrative area with a rectangular boundary
// approximation and its representative roads.
type Ward struct {
	Name     string
	Boundary spatial.Polygon
	Roads    []string
}

// wardRect builds a closed rectangular boundary from two corners.
func wardRect(west, north, east, south float64) spatial.Polygon {
	return spatial.Polygon{
		{Lat: north, Lon: west},
		{Lat: north, Lon: east},
		{Lat: south, Lon: east},
		{Lat: south, Lon: west},
		{Lat: north, Lon: west},
	}
}

// Wards returns the Westminster ward approximations used for summary
// roll-ups. Boundaries overlap in places; assignment takes the first match
// in declaration order, falling back to the nearest ward centroid.
func Wards() []Ward {
	return []Ward{
		{"West End", wardRect(-0.1500, 51.5200, -0.1250, 51.5050),
			[]string{"Oxford Street", "Regent Street", "Bond Street", "Carnaby Street", "Wardour Street", "Dean Street", "Frith Street", "Old Compton Street", "Shaftesbury Avenue", "Charing Cross Road"}},
		{"St James's", wardRect(-0.1500, 51.5050, -0.1200, 51.4950),
			[]string{"Piccadilly", "Pall Mall", "St James's Street", "Jermyn Street", "The Mall", "Haymarket", "Whitehall", "Trafalgar Square"}},
		{"Marylebone High Street", wardRect(-0.1650, 51.5280, -0.1450, 51.5150),
			[]string{"Marylebone High Street", "George Street", "Baker Street", "Gloucester Place", "Welbeck Street", "Wigmore Street"}},
		{"Regent's Park", wardRect(-0.1700, 51.5400, -0.1350, 51.5280),
			[]string{"Park Road", "Prince Albert Road", "Outer Circle", "Albany Street", "Portland Place"}},
		{"Hyde Park", wardRect(-0.1850, 51.5150, -0.1500, 51.4950),
			[]string{"Park Lane", "Mount Street", "South Audley Street", "North Audley Street", "Grosvenor Square"}},
		{"Lancaster Gate", wardRect(-0.1950, 51.5200, -0.1750, 51.5050),
			[]string{"Lancaster Gate", "Bayswater Road", "Craven Road", "Leinster Gardens", "Westbourne Street"}},
		{"Bayswater", wardRect(-0.2050, 51.5200, -0.1850, 51.5050),
			[]string{"Queensway", "Westbourne Grove", "Porchester Road", "Moscow Road", "Inverness Terrace"}},
		{"Maida Vale", wardRect(-0.2050, 51.5400, -0.1850, 51.5280),
			[]string{"Maida Vale", "Elgin Avenue", "Sutherland Avenue", "Randolph Avenue", "Clifton Gardens"}},
		{"Little Venice", wardRect(-0.1900, 51.5280, -0.1700, 51.5200),
			[]string{"Warwick Avenue", "Clifton Road", "Formosa Street", "Blomfield Road", "Delamere Terrace"}},
		{"Church Street", wardRect(-0.1800, 51.5350, -0.1600, 51.5200),
			[]string{"Church Street", "Lisson Grove", "Bell Street", "Salisbury Street", "Frampton Street"}},
		{"Vincent Square", wardRect(-0.1400, 51.4980, -0.1200, 51.4880),
			[]string{"Vincent Square", "Rochester Row", "Greycoat Place", "Francis Street", "Artillery Row"}},
		{"Pimlico North", wardRect(-0.1450, 51.4900, -0.1200, 51.4850),
			[]string{"Belgrave Road", "St George's Drive", "Lupus Street", "Claverton Street", "Cambridge Street"}},
		{"Pimlico South", wardRect(-0.1450, 51.4850, -0.1100, 51.4800),
			[]string{"Lupus Street", "Moreton Street", "Churton Street", "Tachbrook Street", "Warwick Way"}},
		{"Churchill", wardRect(-0.1500, 51.5000, -0.1300, 51.4930),
			[]string{"Victoria Street", "Buckingham Gate", "Petty France", "Broadway", "Palace Street"}},
		{"Knightsbridge & Belgravia", wardRect(-0.1850, 51.5050, -0.1500, 51.4900),
			[]string{"Knightsbridge", "Sloane Street", "Belgrave Square", "Eaton Square", "Pont Street"}},
		{"Warwick", wardRect(-0.1500, 51.4950, -0.1300, 51.4850),
			[]string{"Vauxhall Bridge Road", "Belgrave Road", "Warwick Street", "St George's Square", "Dolphin Square"}},
		{"Fitzrovia", wardRect(-0.1500, 51.5280, -0.1250, 51.5150),
			[]string{"Charlotte Street", "Goodge Street", "Tottenham Court Road", "Cleveland Street", "Rathbone Place"}},
		{"Abbey Road", wardRect(-0.2050, 51.5350, -0.1800, 51.5200),
			[]string{"Abbey Road", "Boundary Road", "Carlton Vale", "Kilburn Park Road", "Quex Road"}},
		{"Bryanston & Dorset Square", wardRect(-0.1750, 51.5250, -0.1550, 51.5150),
			[]string{"Edgware Road", "Seymour Place", "Crawford Street", "Dorset Street", "Boston Place"}},
		{"Westbourne", wardRect(-0.2050, 51.5150, -0.1850, 51.5000),
			[]string{"Westbourne Park Road", "Great Western Road", "Harrow Road", "Westbourne Park Villas", "Porchester Gardens"}},
		{"Queen's Park", wardRect(-0.2050, 51.5350, -0.1900, 51.5250),
			[]string{"Queen's Park", "Salusbury Road", "Kilburn Lane", "Chamberlayne Road", "Harvist Road"}},
		{"Harrow Road", wardRect(-0.2050, 51.5280, -0.1850, 51.5200),
			[]string{"Harrow Road", "Shirland Road", "Ashmore Road", "Fernhead Road", "Walterton Road"}},
		{"Tachbrook", wardRect(-0.1400, 51.4880, -0.1200, 51.4800),
			[]string{"Tachbrook Street", "Charlwood Street", "Aylesford Street", "Clarendon Street", "Denbigh Street"}},
	}
}

// RegionBoundary returns the simplified Westminster outline used to clip
// the hex grid.
func RegionBoundary() spatial.Polygon {
	return spatial.Polygon{
		{Lat: 51.5275, Lon: -0.1634},
		{Lat: 51.5246, Lon: -0.1343},
		{Lat: 51.5180, Lon: -0.1165},
		{Lat: 51.5000, Lon: -0.1150},
		{Lat: 51.4870, Lon: -0.1240},
		{Lat: 51.4850, Lon: -0.1450},
		{Lat: 51.4867, Lon: -0.1600},
		{Lat: 51.5000, Lon: -0.1800},
		{Lat: 51.5100, Lon: -0.2000},
		{Lat: 51.5200, Lon: -0.1900},
		{Lat: 51.5275, Lon: -0.1634},
	}
}

// WardFor resolves the ward containing the point, or the ward with the
// nearest centroid when no boundary contains it.
func WardFor(lat, lon float64, wards []Ward) *Ward {
	if len(wards) == 0 {
		return nil
	}

	pt := spatial.Point{Lat: lat, Lon: lon}
	for i := range wards {
		if spatial.PointInPolygon(pt, wards[i].Boundary) {
			return &wards[i]
		}
	}

	best := 0
	bestDist := math.Inf(1)
	for i := range wards {
		c := wards[i].Boundary.Centroid()
		d := (lat-c.Lat)*(lat-c.Lat) + (lon-c.Lon)*(lon-c.Lon)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return &wards[best]
}

// RoadFor picks a representative road for a position within a ward.
// The choice is seeded by the position so repeated runs agree.
func RoadFor(lat, lon float64, w *Ward) string {
	if w == nil || len(w.Roads) == 0 {
		return ""
	}
	seed := int64(math.Abs(lat*10000+lon*10000)) % 1000000
	rng := rand.New(rand.NewSource(seed))
	return w.Roads[rng.Intn(len(w.Roads))]
}
