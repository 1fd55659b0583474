package spatial

import (
	"fmt"
	"math"

	"github.com/binsight/footfall-backend-go/internal/models"
)

// Region is a bounding box with an optional clip boundary. Cells whose
// centre falls outside the boundary polygon are excluded from the grid.
type Region struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	Boundary       Polygon
}

// Valid reports whether the region spans a non-empty area.
func (r Region) Valid() bool {
	return r.MinLat < r.MaxLat && r.MinLon < r.MaxLon
}

// Center returns the region's bounding box centre.
func (r Region) Center() Point {
	return Point{
		Lat: (r.MinLat + r.MaxLat) / 2,
		Lon: (r.MinLon + r.MaxLon) / 2,
	}
}

// Contains reports whether the point is inside the region, honouring the
// clip boundary when one is set.
func (r Region) Contains(pt Point) bool {
	if pt.Lat < r.MinLat || pt.Lat > r.MaxLat || pt.Lon < r.MinLon || pt.Lon > r.MaxLon {
		return false
	}
	if len(r.Boundary) >= 3 {
		return PointInPolygon(pt, r.Boundary)
	}
	return true
}

// BuildHexGrid tessellates the region into pointy-top hexagonal cells with
// the given circumradius (centre to vertex, meters). The lattice is laid out
// on a local equirectangular projection anchored at the region centre, so
// identical region + radius always produce identical cell IDs and geometry.
func BuildHexGrid(region Region, radiusMeters float64) ([]models.HexCell, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("empty region: lat [%f, %f], lon [%f, %f]",
			region.MinLat, region.MaxLat, region.MinLon, region.MaxLon)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("cell radius must be positive, got %f", radiusMeters)
	}

	origin := region.Center()
	latMeters, lonMeters := MetersPerDegree(origin.Lat)

	// Region extent in projected meters, relative to the origin.
	minX := (region.MinLon - origin.Lon) * lonMeters
	maxX := (region.MaxLon - origin.Lon) * lonMeters
	minY := (region.MinLat - origin.Lat) * latMeters
	maxY := (region.MaxLat - origin.Lat) * latMeters

	// Pointy-top axial lattice: row spacing 1.5R, column spacing sqrt(3)R.
	rowStep := 1.5 * radiusMeters
	colStep := math.Sqrt(3) * radiusMeters

	rMin := int(math.Floor(minY/rowStep)) - 1
	rMax := int(math.Ceil(maxY/rowStep)) + 1
	resTag := int(math.Round(radiusMeters))

	var cells []models.HexCell
	for r := rMin; r <= rMax; r++ {
		y := float64(r) * rowStep
		// Odd rows are offset by half a column.
		offset := 0.0
		if r%2 != 0 {
			offset = colStep / 2
		}
		qMin := int(math.Floor((minX-offset)/colStep)) - 1
		qMax := int(math.Ceil((maxX-offset)/colStep)) + 1

		for q := qMin; q <= qMax; q++ {
			x := float64(q)*colStep + offset
			center := Point{
				Lat: origin.Lat + y/latMeters,
				Lon: origin.Lon + x/lonMeters,
			}
			if !region.Contains(center) {
				continue
			}

			cells = append(cells, models.HexCell{
				CellID:    fmt.Sprintf("H%d_%d_%d", resTag, q, r),
				Q:         q,
				R:         r,
				CenterLat: center.Lat,
				CenterLon: center.Lon,
				Boundary:  hexBoundary(x, y, radiusMeters, origin, latMeters, lonMeters),
			})
		}
	}

	if len(cells) == 0 {
		return nil, fmt.Errorf("region produced no cells at radius %f m", radiusMeters)
	}
	return cells, nil
}

// hexBoundary returns the closed 7-point [lon, lat] ring of a pointy-top
// hexagon centred at projected coordinates (x, y).
func hexBoundary(x, y, radius float64, origin Point, latMeters, lonMeters float64) [][2]float64 {
	ring := make([][2]float64, 0, 7)
	for k := 0; k < 6; k++ {
		angle := math.Pi / 180 * (60*float64(k) - 30)
		vx := x + radius*math.Cos(angle)
		vy := y + radius*math.Sin(angle)
		ring = append(ring, [2]float64{
			origin.Lon + vx/lonMeters,
			origin.Lat + vy/latMeters,
		})
	}
	ring = append(ring, ring[0])
	return ring
}
