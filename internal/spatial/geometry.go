package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Polygon is a closed ring of vertices. The first and last vertex may be
// equal; PointInPolygon treats the ring as closed either way.
type Polygon []Point

// Centroid calculates the geographic centroid of the polygon's vertices,
// ignoring a duplicated closing vertex.
func (p Polygon) Centroid() Point {
	n := len(p)
	if n == 0 {
		return Point{}
	}
	if n > 1 && p[0] == p[n-1] {
		n--
	}
	var sumLat, sumLon float64
	for _, v := range p[:n] {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	return Point{
		Lat: sumLat / float64(n),
		Lon: sumLon / float64(n),
	}
}

// PointInPolygon reports whether the point lies inside the polygon,
// using the ray casting algorithm.
func PointInPolygon(pt Point, poly Polygon) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Lat > pt.Lat) != (pj.Lat > pt.Lat) &&
			pt.Lon < (pj.Lon-pi.Lon)*(pt.Lat-pi.Lat)/(pj.Lat-pi.Lat)+pi.Lon {
			inside = !inside
		}
		j = i
	}
	return inside
}
