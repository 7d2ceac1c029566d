package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// TravelSeconds estimates driving time along the great circle at speedKmh,
// inflated by detour to approximate a road network (1.3 is typical for towns).
func TravelSeconds(lat1, lon1, lat2, lon2, speedKmh, detour float64) float64 {
	if speedKmh <= 0 {
		return 0
	}
	if detour < 1 {
		detour = 1
	}
	meters := Haversine(lat1, lon1, lat2, lon2) * detour
	return meters / (speedKmh * 1000 / 3600)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
