package publisher

import (
	"context"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

// TransitionPublisher fans a zone-state change out to downstream consumers
// (dashboards, audit listeners). Delivery is best effort from the engine's
// point of view.
type TransitionPublisher interface {
	PublishTransition(ctx context.Context, event *domain.TransitionEvent) error
}
