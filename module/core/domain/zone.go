package domain

// ZoneState classifies a dependent's distance from the safezone center.
//
// The numeric codes are wire/database identifiers shared with the devices and
// must not be reordered: Breach is 2 and Alert is 3. Use Severity for display
// ordering, never the raw code.
type ZoneState int

const (
	ZoneInside  ZoneState = 0
	ZoneCaution ZoneState = 1
	ZoneBreach  ZoneState = 2
	ZoneAlert   ZoneState = 3
)

func (z ZoneState) String() string {
	switch z {
	case ZoneInside:
		return "inside"
	case ZoneCaution:
		return "caution"
	case ZoneAlert:
		return "alert"
	case ZoneBreach:
		return "breach"
	default:
		return "unknown"
	}
}

// Severity returns the display ranking Inside < Caution < Alert < Breach.
func (z ZoneState) Severity() int {
	switch z {
	case ZoneInside:
		return 0
	case ZoneCaution:
		return 1
	case ZoneAlert:
		return 2
	case ZoneBreach:
		return 3
	default:
		return -1
	}
}

func (z ZoneState) Valid() bool {
	switch z {
	case ZoneInside, ZoneCaution, ZoneAlert, ZoneBreach:
		return true
	}
	return false
}
