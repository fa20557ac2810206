package model

import "time"

// Booking status values.  A booking is created active and may only
// transition to cancelled; cancelled is terminal.  Cancelled rows are
// kept for auditing and are excluded from bay availability.
const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
)

// Booking records a customer's claim on one bay of a garage for a
// specific date and time slot.  For any (garage, date, time slot) the
// set of bays across active bookings never contains duplicates.  The
// customer fields are opaque to the booking engine; they are validated
// at the HTTP layer.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – customer name.
//  Email      – customer email address.
//  Phone      – customer phone number.
//  VehicleReg – vehicle registration plate.
//  Date       – calendar day in YYYY-MM-DD form.
//  TimeSlot   – slot label in HH:MM form.
//  Bay        – assigned bay, 1..garage.BayCount.
//  GarageID   – garage the bay belongs to.
//  Status     – active or cancelled.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64    `json:"id"`          // bookings.id
	Name       string    `json:"name"`        // bookings.name
	Email      string    `json:"email"`       // bookings.email
	Phone      string    `json:"phone"`       // bookings.phone
	VehicleReg string    `json:"vehicle_reg"` // bookings.vehicle_reg
	Date       string    `json:"date"`        // bookings.booking_date
	TimeSlot   string    `json:"time_slot"`   // bookings.time_slot
	Bay        uint32    `json:"bay"`         // bookings.bay
	GarageID   uint64    `json:"garage_id"`   // bookings.garage_id
	Status     string    `json:"status"`      // bookings.status
	CreatedAt  time.Time `json:"created_at"`  // bookings.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // bookings.updated_at
}
