package service

import (
	"testing"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

func TestNextPollInterval(t *testing.T) {
	const r1 = 100.0

	tests := []struct {
		name     string
		state    domain.ZoneState
		distance float64
		want     string
	}{
		{"confidently inside", domain.ZoneInside, 40, "slow"},
		{"inside at confidence boundary", domain.ZoneInside, 80, "slow"},
		{"inside but near boundary", domain.ZoneInside, 95, "fast"},
		{"caution", domain.ZoneCaution, 120, "fast"},
		{"alert", domain.ZoneAlert, 170, "fast"},
		{"breach", domain.ZoneBreach, 300, "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPollInterval(tt.state, tt.distance, r1)
			if tt.want == "slow" && got != SlowPollInterval {
				t.Errorf("expected slow interval, got %s", got)
			}
			if tt.want == "fast" && got != FastPollInterval {
				t.Errorf("expected fast interval, got %s", got)
			}
		})
	}
}
