package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrZoneNotConfigured means no safezone exists for the tracking key, so
	// a report cannot be classified. Distinct from bad input.
	ErrZoneNotConfigured = errors.New("safezone not configured")

	// ErrInvalidReport means a required report field is absent. A numeric
	// zero is a present value and never triggers this.
	ErrInvalidReport = errors.New("invalid location report")
)
