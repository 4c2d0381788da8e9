package domain

// Safezone is the caregiver-configured geofence for one tracking key: a
// center point with two concentric radii. RadiusTier1 is the caution
// boundary, RadiusTier2 the alert boundary; both in meters, r2 >= r1 > 0.
// The geofence engine only reads it.
type Safezone struct {
	ID          int64       `json:"safezone_id"`
	Key         TrackingKey `json:"key"`
	Center      Position    `json:"center"`
	RadiusTier1 float64     `json:"radius_tier1"`
	RadiusTier2 float64     `json:"radius_tier2"`
	Enabled     bool        `json:"enabled"`
}
