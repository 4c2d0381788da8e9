package service

import (
	"math"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

const earthRadiusMeters = 6371000

// alertThresholdFactor marks where the caution band ends: at 80% of the
// outer radius the state escalates to alert even though the dependent is
// still inside the fence.
const alertThresholdFactor = 0.8

// Haversine returns the great-circle distance in meters between two points
// on a spherical earth.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// ClassifyZone maps a distance from the safezone center onto a zone state.
// Priority chain, first match wins:
//
//	d <= r1          inside
//	r1 < d < 0.8*r2  caution
//	0.8*r2 <= d <= r2 alert
//	d > r2           breach
//
// Pure and total for any non-negative distance; identical inputs always
// produce identical output, so duplicate reports reclassify identically.
func ClassifyZone(distance, radiusTier1, radiusTier2 float64) domain.ZoneState {
	alertThreshold := radiusTier2 * alertThresholdFactor
	switch {
	case distance <= radiusTier1:
		return domain.ZoneInside
	case distance < alertThreshold:
		return domain.ZoneCaution
	case distance <= radiusTier2:
		return domain.ZoneAlert
	default:
		return domain.ZoneBreach
	}
}
