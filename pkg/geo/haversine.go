package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// DistanceFunc returns the distance in meters between two lat/lng points.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// DistanceCalc picks the distance function used for search heuristics.
// Approximate mode trades accuracy for speed with the equirectangular projection.
func DistanceCalc(approximate bool) DistanceFunc {
	if approximate {
		return EquirectangularDist
	}
	return Haversine
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// EquirectangularDist returns an approximate distance in meters.
// Close to Haversine for short distances away from the poles; never use it
// for stored edge lengths.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// MetersToDegrees converts a distance to a (lat, lon) degree span at the given
// latitude. Used to size bounding-box searches.
func MetersToDegrees(meters, lat float64) (dLat, dLon float64) {
	dLat = meters / degToMeters
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-6 {
		return dLat, 180
	}
	return dLat, dLat / cosLat
}

// degToMeters is the length of one degree of latitude in meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters
