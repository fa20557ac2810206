package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/garage-bay-booking/internal/allocator"
	"github.com/iliyamo/garage-bay-booking/internal/queue"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/service/booking"
	queuepublisher "github.com/iliyamo/garage-bay-booking/internal/service/queue_publisher"
)

// BookingHandler exposes the public booking endpoint.  Validation of
// field syntax happens here; bay allocation and the uniqueness
// invariant live in the booking service.
type BookingHandler struct {
	Bookings *booking.Service
}

// NewBookingHandler constructs a BookingHandler.  The service must be
// non-nil.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: svc}
}

type createBookingRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	VehicleReg string `json:"vehicle_reg"`
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	GarageID   uint64 `json:"garage_id"`
}

// Create handles POST /v1/bookings.  On success it returns 201 with
// the stored booking including the assigned bay.  A slot with no free
// bay yields 409; an unknown garage yields 404.
func (h *BookingHandler) Create(c echo.Context) error {
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validateName(body.Name); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateEmail(body.Email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validatePhone(body.Phone); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateVehicleReg(body.VehicleReg); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateDate(body.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateTimeSlot(body.TimeSlot); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if body.GarageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "garage_id must be a positive integer"})
	}

	b, err := h.Bookings.Create(c.Request().Context(), booking.CreateInput{
		Name:       body.Name,
		Email:      body.Email,
		Phone:      body.Phone,
		VehicleReg: body.VehicleReg,
		Date:       body.Date,
		TimeSlot:   body.TimeSlot,
		GarageID:   body.GarageID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGarageNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garage not found"})
		case errors.Is(err, allocator.ErrNoCapacity):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no bay available for this slot"})
		case errors.Is(err, repository.ErrBayConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot contention, please retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	publishBookingEvent(queue.KindBookingCreated, b.ID, b.GarageID, b.Date, b.TimeSlot, b.Bay, b.VehicleReg)

	return c.JSON(http.StatusCreated, b)
}

// publishBookingEvent fires an audit event without blocking the
// request.  Publish failures are logged inside the publisher; the
// booking has already committed and is never rolled back.
func publishBookingEvent(kind string, id, garageID uint64, date, slot string, bay uint32, vehicleReg string) {
	ev := queue.BookingEvent{
		Kind:       kind,
		BookingID:  id,
		GarageID:   garageID,
		Date:       date,
		TimeSlot:   slot,
		Bay:        bay,
		VehicleReg: vehicleReg,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepublisher.PublishBookingEvent(ctx, ev)
	}()
}
