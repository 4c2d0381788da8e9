package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/database"
)

var _ database.SafezoneRepository = (*SafezoneRepo)(nil)

type SafezoneRepo struct {
	db *sql.DB
}

func NewSafezoneRepo(db *sql.DB) *SafezoneRepo {
	return &SafezoneRepo{db: db}
}

func (r *SafezoneRepo) Find(ctx context.Context, key domain.TrackingKey) (*domain.Safezone, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT safezone_id, user_id, takecare_id, latitude, longitude, radius_tier1, radius_tier2, enabled
		 FROM safezones WHERE user_id = $1 AND takecare_id = $2 AND enabled`,
		key.UserID, key.TakecareID,
	)

	var sz domain.Safezone
	err := row.Scan(
		&sz.ID, &sz.Key.UserID, &sz.Key.TakecareID,
		&sz.Center.Latitude, &sz.Center.Longitude,
		&sz.RadiusTier1, &sz.RadiusTier2, &sz.Enabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find safezone: %w", err)
	}
	return &sz, nil
}
