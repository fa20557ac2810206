package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/garage-bay-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBayConflict is returned when an insert or update violates the
// active-bay uniqueness key, meaning another writer claimed the same
// bay for the same slot first.  Callers recompute the occupied set and
// retry with a fresh bay.
var ErrBayConflict = errors.New("bay already taken for slot")

// BookingRepo provides CRUD operations for bookings.  The bookings
// table carries a stored generated column active_bay (the bay when
// status is active, NULL otherwise) with a unique key over
// (garage_id, booking_date, time_slot, active_bay).  MySQL therefore
// rejects any write that would give two active bookings the same bay
// in the same slot, regardless of how many processes share the table.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, name, email, phone, vehicle_reg, booking_date, time_slot, bay, garage_id, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.VehicleReg,
		&b.Date, &b.TimeSlot, &b.Bay, &b.GarageID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// OccupiedBays returns the set of bay numbers held by active bookings
// for the given garage, date and time slot.  When excludeID is
// non-zero that booking is left out, so a booking being moved does not
// block its own slot.  The read reflects all committed bookings at
// call time; atomicity with a subsequent write is the caller's
// responsibility (per-slot lock in the booking service, unique key in
// this table).
func (r *BookingRepo) OccupiedBays(ctx context.Context, garageID uint64, date, timeSlot string, excludeID uint64) (map[uint32]bool, error) {
	q := `SELECT bay FROM bookings WHERE garage_id = ? AND booking_date = ? AND time_slot = ? AND status = 'active'`
	args := []interface{}{garageID, date, timeSlot}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupied := make(map[uint32]bool)
	for rows.Next() {
		var bay uint32
		if err := rows.Scan(&bay); err != nil {
			return nil, err
		}
		occupied[bay] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return occupied, nil
}

// Insert persists a new active booking and populates the generated ID
// and timestamps on the provided record.  It returns ErrBayConflict
// when the unique active-bay key rejects the row.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (name, email, phone, vehicle_reg, booking_date, time_slot, bay, garage_id, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'active')`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Email, b.Phone, b.VehicleReg, b.Date, b.TimeSlot, b.Bay, b.GarageID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrBayConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate status and timestamps.
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, sel, b.ID), b)
}

// GetByID retrieves a booking regardless of status.  It returns
// ErrBookingNotFound when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update rewrites every mutable column of a booking in a single
// statement, so a patch and a reassigned bay commit together or not at
// all.  Only rows that are still active may be rewritten.  It returns
// ErrBayConflict when the active-bay key rejects the new values and
// ErrBookingNotFound when no active row with the ID exists.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET name = ?, email = ?, phone = ?, vehicle_reg = ?, booking_date = ?, time_slot = ?, bay = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'active'`
	res, err := r.db.ExecContext(ctx, q,
		b.Name, b.Email, b.Phone, b.VehicleReg, b.Date, b.TimeSlot, b.Bay, b.Status, b.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrBayConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows for a no-change update, so
		// distinguish that from a missing or cancelled row.
		var exists bool
		check := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ? AND status = 'active')`, b.ID)
		if err := check.Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
	}
	return nil
}

// Cancel soft-deletes a booking by setting its status to cancelled.
// Cancelling an already-cancelled booking is a no-op success;
// cancelling an unknown ID returns ErrBookingNotFound.  Freeing the
// bay needs no further work because the generated active_bay column
// becomes NULL and leaves the uniqueness key.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'active'`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		check := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id)
		if err := check.Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
	}
	return nil
}

// List returns all bookings including cancelled ones, ordered by id
// ascending.  It is used by the admin audit view; snapshot consistency
// with respect to concurrent writers is sufficient here.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
