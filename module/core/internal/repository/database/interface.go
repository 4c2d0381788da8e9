package database

import (
	"context"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

// LocationRepository is the single-latest-row location store. FindLatest
// returns domain.ErrNotFound for a key that has never reported.
type LocationRepository interface {
	FindLatest(ctx context.Context, key domain.TrackingKey) (*domain.LocationRecord, error)
	Upsert(ctx context.Context, rec *domain.LocationRecord) (*domain.LocationRecord, error)
	ListTrackedPersons(ctx context.Context) ([]domain.TrackingKey, error)
}

// SafezoneRepository resolves the caregiver-configured geofence for a key.
// Find returns domain.ErrNotFound when no safezone exists.
type SafezoneRepository interface {
	Find(ctx context.Context, key domain.TrackingKey) (*domain.Safezone, error)
}

// ContactRepository resolves caregiver contact data for notification
// delivery.
type ContactRepository interface {
	Resolve(ctx context.Context, key domain.TrackingKey) (*domain.CaregiverContact, error)
}
