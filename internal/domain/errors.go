package domain

import "errors"

var (
	// ErrDashboardNotFound is returned when an operation references a
	// dashboard id that has no row.
	ErrDashboardNotFound = errors.New("dashboard not found")

	// ErrDashboardExists is returned when a create collides with an existing
	// uid or id (storage-level uniqueness constraint).
	ErrDashboardExists = errors.New("dashboard already exists")

	// ErrNoData is returned when no samples match a (name, labels) key. It is
	// distinct from a series whose values happen to be zero.
	ErrNoData = errors.New("no data found")
)
