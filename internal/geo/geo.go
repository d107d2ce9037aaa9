// Package geo contains the geofence math for the check-in flow.
package geo

import "math"

// radioTierraMetros is the mean Earth radius used by the haversine formula.
const radioTierraMetros = 6371000.0

// DistanciaMetros returns the great-circle distance in meters between two
// coordinates given in decimal degrees (haversine, spherical Earth).
func DistanciaMetros(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*(math.Pi/180))*math.Cos(lat2*(math.Pi/180))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return radioTierraMetros * c
}

// DentroDeRadio reports whether a point is within radioMetros of the center.
func DentroDeRadio(lat, lon, centroLat, centroLon, radioMetros float64) bool {
	return DistanciaMetros(lat, lon, centroLat, centroLon) <= radioMetros
}
