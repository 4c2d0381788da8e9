package domain

import "time"

// TrackingKey pairs a caregiver account with the dependent person they track.
// All safezone and location data is scoped by this pair.
type TrackingKey struct {
	UserID     int64 `json:"user_id"`
	TakecareID int64 `json:"takecare_id"`
}

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationReport is one validated position update from a reporting device.
// ReportedDistance is the device's own distance estimate; classification uses
// the server-side computation, not this value.
type LocationReport struct {
	Key              TrackingKey
	Position         Position
	ReportedDistance float64
	Battery          float64
	ReceivedAt       time.Time
}

// LocationRecord is the single latest known position for a key. The store
// keeps exactly one live row per key, overwritten in place on every report;
// the engine retains no history.
type LocationRecord struct {
	ID         int64       `json:"location_id"`
	Key        TrackingKey `json:"key"`
	Position   Position    `json:"position"`
	RecordedAt time.Time   `json:"recorded_at"`
	ZoneState  ZoneState   `json:"zone_state"`
	Distance   float64     `json:"distance"`
	Battery    float64     `json:"battery"`
	NotifiedAt time.Time   `json:"notified_at"`
}

// ZoneSnapshot is the read model served to polling clients.
type ZoneSnapshot struct {
	Key       TrackingKey `json:"key"`
	Position  Position    `json:"position"`
	ZoneState ZoneState   `json:"zone_state"`
	Distance  float64     `json:"distance"`
	AsOf      time.Time   `json:"as_of"`
}
