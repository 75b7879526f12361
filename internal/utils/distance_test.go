package utils

import (
	"testing"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	barcelona = models.Coordinates{Latitude: 41.3851, Longitude: 2.1734}
	madrid    = models.Coordinates{Latitude: 40.4168, Longitude: -3.7038}
	valencia  = models.Coordinates{Latitude: 39.4699, Longitude: -0.3763}
)

func TestCalculateDistance_KnownCities(t *testing.T) {
	// Straight-line Barcelona-Madrid is roughly 505 km.
	d := CalculateDistance(barcelona, madrid)
	assert.InDelta(t, 505, d, 5)

	d = CalculateDistance(madrid, valencia)
	assert.InDelta(t, 302, d, 5)
}

func TestCalculateDistance_Symmetric(t *testing.T) {
	pairs := []struct {
		a, b models.Coordinates
	}{
		{barcelona, madrid},
		{madrid, valencia},
		{models.Coordinates{Latitude: -33.8688, Longitude: 151.2093}, models.Coordinates{Latitude: 51.5074, Longitude: -0.1278}},
	}

	for _, p := range pairs {
		assert.InDelta(t, CalculateDistance(p.a, p.b), CalculateDistance(p.b, p.a), 1e-9)
	}
}

func TestCalculateDistance_Identity(t *testing.T) {
	assert.InDelta(t, 0, CalculateDistance(barcelona, barcelona), 1e-9)
}

func TestIsWithinRadius(t *testing.T) {
	near := models.Coordinates{Latitude: 41.39, Longitude: 2.18}

	assert.True(t, IsWithinRadius(barcelona, near, 2))
	assert.False(t, IsWithinRadius(barcelona, madrid, 100))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "350m", FormatDistance(0.35))
	assert.Equal(t, "1.0km", FormatDistance(1.0))
	assert.Equal(t, "2.5km", FormatDistance(2.49))
}
