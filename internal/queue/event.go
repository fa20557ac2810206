// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried on the booking.audit queue.
const (
	KindBookingCreated   = "booking.created"
	KindBookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking is created or
// cancelled.  It contains enough information for downstream consumers
// to log or trigger analytics without querying the primary database.
// The customer's name and phone are deliberately left out; the audit
// trail only needs the vehicle and the slot.
type BookingEvent struct {
	Kind       string `json:"kind"`
	BookingID  uint64 `json:"booking_id"`
	GarageID   uint64 `json:"garage_id"`
	GarageName string `json:"garage_name,omitempty"`
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	Bay        uint32 `json:"bay"`
	VehicleReg string `json:"vehicle_reg"`
	OccurredAt string `json:"occurred_at"`
}
