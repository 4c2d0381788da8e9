package domain

import "time"

// TransitionEvent records one zone-state change for a key. Ephemeral: it is
// produced during a single report call, pushed to caregivers and published to
// the event exchange, never persisted by the engine.
type TransitionEvent struct {
	ID            string      `json:"event_id"`
	Key           TrackingKey `json:"key"`
	PreviousState *ZoneState  `json:"previous_state,omitempty"`
	NewState      ZoneState   `json:"new_state"`
	Position      Position    `json:"position"`
	Distance      float64     `json:"distance"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// Escalate reports whether the event carries the breach escalation action.
func (e *TransitionEvent) Escalate() bool {
	return e.NewState == ZoneBreach
}
