// Package booking implements the bay allocation and booking lifecycle
// engine.  It ties the slot availability index (BookingStore.OccupiedBays)
// and the pure allocator together under a per-slot lock, so two
// concurrent writes for the same (garage, date, time slot) can never
// both observe the same free bay.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/garage-bay-booking/internal/allocator"
	"github.com/iliyamo/garage-bay-booking/internal/model"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
)

// ErrCancelled is returned when an update targets a booking that has
// already been cancelled; cancelled is a terminal state.
var ErrCancelled = errors.New("booking is cancelled")

// ErrInvalidStatus is returned when a patch carries a status value
// outside the active/cancelled lifecycle.
var ErrInvalidStatus = errors.New("invalid status transition")

// allocationRetries bounds how often a write is retried after losing
// the storage-level uniqueness race to a writer in another process.
// Within one process the slot lock already serializes writers.
const allocationRetries = 3

// GarageStore is the subset of the garage repository the service needs.
type GarageStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Garage, error)
}

// BookingStore is the durable booking storage contract.  Insert and
// Update must be atomic per call and must return
// repository.ErrBayConflict when the active-bay uniqueness invariant
// would be violated.
type BookingStore interface {
	OccupiedBays(ctx context.Context, garageID uint64, date, timeSlot string, excludeID uint64) (map[uint32]bool, error)
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	Cancel(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.Booking, error)
}

// CreateInput carries the validated fields for a new booking.  The
// HTTP layer has already checked the syntax of every field; the
// service only enforces domain invariants.
type CreateInput struct {
	Name       string
	Email      string
	Phone      string
	VehicleReg string
	Date       string
	TimeSlot   string
	GarageID   uint64
}

// Patch describes a partial update.  Nil fields are left unchanged.
// When Date or TimeSlot moves the booking to a different slot, the
// service re-runs allocation for the destination slot excluding the
// booking itself.
type Patch struct {
	Name       *string
	Email      *string
	Phone      *string
	VehicleReg *string
	Date       *string
	TimeSlot   *string
	Status     *string
}

// Service implements the booking lifecycle over injected stores.
type Service struct {
	garages  GarageStore
	bookings BookingStore
	locks    *slotLocks
}

// NewService constructs a booking Service.  Both stores must be
// non-nil.
func NewService(garages GarageStore, bookings BookingStore) *Service {
	if garages == nil || bookings == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{garages: garages, bookings: bookings, locks: newSlotLocks()}
}

func slotKey(garageID uint64, date, timeSlot string) string {
	return fmt.Sprintf("%d/%s/%s", garageID, date, timeSlot)
}

// Create verifies the garage, allocates the first free bay for the
// requested slot and persists the booking.  It returns
// repository.ErrGarageNotFound or allocator.ErrNoCapacity as domain
// outcomes; anything else is a storage failure.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Booking, error) {
	garage, err := s.garages.GetByID(ctx, in.GarageID)
	if err != nil {
		return nil, err
	}

	release := s.locks.acquire(slotKey(in.GarageID, in.Date, in.TimeSlot))
	defer release()

	var lastErr error
	for attempt := 0; attempt < allocationRetries; attempt++ {
		occupied, err := s.bookings.OccupiedBays(ctx, in.GarageID, in.Date, in.TimeSlot, 0)
		if err != nil {
			return nil, err
		}
		bay, err := allocator.FirstFree(garage.BayCount, occupied)
		if err != nil {
			return nil, err
		}
		b := &model.Booking{
			Name:       in.Name,
			Email:      in.Email,
			Phone:      in.Phone,
			VehicleReg: in.VehicleReg,
			Date:       in.Date,
			TimeSlot:   in.TimeSlot,
			Bay:        bay,
			GarageID:   in.GarageID,
			Status:     model.BookingActive,
		}
		if err := s.bookings.Insert(ctx, b); err != nil {
			if errors.Is(err, repository.ErrBayConflict) {
				// A writer outside this process claimed the bay between
				// our read and insert; recompute and try again.
				lastErr = err
				continue
			}
			return nil, err
		}
		return b, nil
	}
	return nil, lastErr
}

// Update applies a partial patch to an active booking.  When the patch
// moves the booking to a different (date, time slot), the bay is
// reallocated for the destination slot with the booking's own id
// excluded from the occupied set; the patch and the new bay commit in
// one atomic store call.  Patches that leave date and time slot
// unchanged never touch the bay.
func (s *Service) Update(ctx context.Context, id uint64, p Patch) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingActive {
		return nil, ErrCancelled
	}
	if p.Status != nil && *p.Status != model.BookingActive && *p.Status != model.BookingCancelled {
		return nil, ErrInvalidStatus
	}

	date, timeSlot := b.Date, b.TimeSlot
	if p.Date != nil {
		date = *p.Date
	}
	if p.TimeSlot != nil {
		timeSlot = *p.TimeSlot
	}
	moved := date != b.Date || timeSlot != b.TimeSlot

	applyPatch(b, p)
	b.Date = date
	b.TimeSlot = timeSlot

	if !moved {
		if err := s.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		return b, nil
	}

	garage, err := s.garages.GetByID(ctx, b.GarageID)
	if err != nil {
		return nil, err
	}

	release := s.locks.acquire(slotKey(b.GarageID, date, timeSlot))
	defer release()

	var lastErr error
	for attempt := 0; attempt < allocationRetries; attempt++ {
		occupied, err := s.bookings.OccupiedBays(ctx, b.GarageID, date, timeSlot, b.ID)
		if err != nil {
			return nil, err
		}
		bay, err := allocator.FirstFree(garage.BayCount, occupied)
		if err != nil {
			return nil, err
		}
		b.Bay = bay
		if err := s.bookings.Update(ctx, b); err != nil {
			if errors.Is(err, repository.ErrBayConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return b, nil
	}
	return nil, lastErr
}

// Get returns a single booking by id.
func (s *Service) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// Cancel transitions a booking to cancelled.  The transition is
// one-way; the freed bay becomes visible to allocation as soon as the
// store commits.
func (s *Service) Cancel(ctx context.Context, id uint64) error {
	return s.bookings.Cancel(ctx, id)
}

// List returns every booking, cancelled ones included, ordered by id.
func (s *Service) List(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.List(ctx)
}

func applyPatch(b *model.Booking, p Patch) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.VehicleReg != nil {
		b.VehicleReg = *p.VehicleReg
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}
