package service

import (
	"time"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

const (
	// FastPollInterval keeps clients responsive near the boundaries.
	FastPollInterval = 3 * time.Second
	// SlowPollInterval applies only when the dependent is confidently
	// inside the safezone.
	SlowPollInterval = 30 * time.Second

	// confidentInsideFactor: the dependent counts as confidently inside
	// only within 80% of the inner radius, so a reading hovering at the
	// boundary keeps the fast cadence.
	confidentInsideFactor = 0.8
)

// NextPollInterval picks the client polling cadence from the last known
// classification. A missed poll only delays the client's view; it never
// touches server state.
func NextPollInterval(state domain.ZoneState, distance, radiusTier1 float64) time.Duration {
	if state == domain.ZoneInside && distance <= radiusTier1*confidentInsideFactor {
		return SlowPollInterval
	}
	return FastPollInterval
}
