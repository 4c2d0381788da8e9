package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/database"
)

var _ database.ContactRepository = (*ContactRepo)(nil)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Resolve joins the caregiver account with the active tracked-person row.
// Only called on the notification path, so a miss here means the alert has
// nowhere to go.
func (r *ContactRepo) Resolve(ctx context.Context, key domain.TrackingKey) (*domain.CaregiverContact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT u.first_name || ' ' || u.last_name,
		        u.phone,
		        u.line_id,
		        t.first_name || ' ' || t.last_name,
		        t.phone
		 FROM users u
		 JOIN takecare_persons t ON t.user_id = u.user_id
		 WHERE u.user_id = $1 AND t.takecare_id = $2 AND t.status = 1`,
		key.UserID, key.TakecareID,
	)

	var c domain.CaregiverContact
	err := row.Scan(&c.CaregiverName, &c.CaregiverPhone, &c.LineRecipient, &c.DependentName, &c.DependentPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve contact: %w", err)
	}
	return &c, nil
}
