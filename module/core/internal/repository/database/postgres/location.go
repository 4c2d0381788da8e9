package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) FindLatest(ctx context.Context, key domain.TrackingKey) (*domain.LocationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT location_id, user_id, takecare_id, latitude, longitude, recorded_at, zone_state, distance, battery, notified_at
		 FROM locations WHERE user_id = $1 AND takecare_id = $2`,
		key.UserID, key.TakecareID,
	)

	rec, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find latest location: %w", err)
	}
	return rec, nil
}

// Upsert overwrites the one live row for the key, creating it on the first
// report. The UNIQUE (user_id, takecare_id) constraint is what makes the
// single-row invariant hold.
func (r *LocationRepo) Upsert(ctx context.Context, rec *domain.LocationRecord) (*domain.LocationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO locations (user_id, takecare_id, latitude, longitude, recorded_at, zone_state, distance, battery, notified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id, takecare_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			recorded_at = EXCLUDED.recorded_at,
			zone_state = EXCLUDED.zone_state,
			distance = EXCLUDED.distance,
			battery = EXCLUDED.battery,
			notified_at = EXCLUDED.notified_at
		 RETURNING location_id, user_id, takecare_id, latitude, longitude, recorded_at, zone_state, distance, battery, notified_at`,
		rec.Key.UserID, rec.Key.TakecareID, rec.Position.Latitude, rec.Position.Longitude,
		rec.RecordedAt, int(rec.ZoneState), rec.Distance, rec.Battery, rec.NotifiedAt,
	)

	stored, err := scanLocation(row)
	if err != nil {
		return nil, fmt.Errorf("upsert location: %w", err)
	}
	return stored, nil
}

func (r *LocationRepo) ListTrackedPersons(ctx context.Context) ([]domain.TrackingKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, takecare_id FROM locations ORDER BY user_id, takecare_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracked persons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []domain.TrackingKey
	for rows.Next() {
		var k domain.TrackingKey
		if err := rows.Scan(&k.UserID, &k.TakecareID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*domain.LocationRecord, error) {
	var rec domain.LocationRecord
	var state int
	if err := row.Scan(
		&rec.ID, &rec.Key.UserID, &rec.Key.TakecareID,
		&rec.Position.Latitude, &rec.Position.Longitude,
		&rec.RecordedAt, &state, &rec.Distance, &rec.Battery, &rec.NotifiedAt,
	); err != nil {
		return nil, err
	}
	rec.ZoneState = domain.ZoneState(state)
	return &rec, nil
}
