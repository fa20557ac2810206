package model

import "time"

// Garage describes a physical site with a fixed number of identical,
// interchangeable service bays numbered 1..BayCount.  Garages are
// created during setup and are immutable afterwards; bookings
// reference them by ID.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable display name.
//  BayCount  – number of service bays (positive).
//  CreatedAt – creation timestamp.
type Garage struct {
	ID        uint64    // garages.id
	Name      string    // garages.name
	BayCount  uint32    // garages.bay_count
	CreatedAt time.Time // garages.created_at
}
