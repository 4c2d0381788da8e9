package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

var safezoneColumns = []string{
	"safezone_id", "user_id", "takecare_id", "latitude", "longitude",
	"radius_tier1", "radius_tier2", "enabled",
}

func TestSafezoneFind_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(safezoneColumns).
		AddRow(int64(5), int64(1), int64(7), 13.7563, 100.5018, 10.0, 20.0, true)

	mock.ExpectQuery(`FROM safezones WHERE user_id = (.+) AND takecare_id = (.+) AND enabled`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(rows)

	repo := NewSafezoneRepo(db)
	sz, err := repo.Find(context.Background(), domain.TrackingKey{UserID: 1, TakecareID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sz.RadiusTier1 != 10 || sz.RadiusTier2 != 20 {
		t.Errorf("unexpected radii: %+v", sz)
	}
	if sz.Center.Latitude != 13.7563 {
		t.Errorf("unexpected center: %+v", sz.Center)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSafezoneFind_NotConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM safezones WHERE user_id = (.+) AND takecare_id = (.+) AND enabled`).
		WithArgs(int64(1), int64(99)).
		WillReturnRows(sqlmock.NewRows(safezoneColumns))

	repo := NewSafezoneRepo(db)
	_, err = repo.Find(context.Background(), domain.TrackingKey{UserID: 1, TakecareID: 99})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
