package utils

import (
	"fmt"
	"math"

	"github.com/alexcolls/descuentia/internal/models"
)

// CalculateDistance returns the great-circle distance between two coordinates
// in kilometers.
func CalculateDistance(a, b models.Coordinates) float64 {
	return haversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	// Differences
	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

func IsWithinRadius(center, point models.Coordinates, radiusKM float64) bool {
	return CalculateDistance(center, point) <= radiusKM
}

// FormatDistance renders a distance for display: meters under 1 km,
// otherwise one decimal of kilometers.
func FormatDistance(kilometers float64) string {
	if kilometers < 1 {
		return fmt.Sprintf("%dm", int(math.Round(kilometers*1000)))
	}
	return fmt.Sprintf("%.1fkm", kilometers)
}
