package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/garage-bay-booking/internal/allocator"
	"github.com/iliyamo/garage-bay-booking/internal/model"
	"github.com/iliyamo/garage-bay-booking/internal/queue"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/service/booking"
)

// AdminBookingHandler serves the authenticated booking management
// endpoints.  All methods assume the session middleware has already
// verified a live admin session.
type AdminBookingHandler struct {
	Bookings *booking.Service
}

// NewAdminBookingHandler constructs an AdminBookingHandler.  The
// service must be non-nil.
func NewAdminBookingHandler(svc *booking.Service) *AdminBookingHandler {
	if svc == nil {
		panic("nil service passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: svc}
}

// List handles GET /v1/admin/bookings and returns every booking,
// cancelled ones included, ordered by id.
func (h *AdminBookingHandler) List(c echo.Context) error {
	bookings, err := h.Bookings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

type updateBookingRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	VehicleReg *string `json:"vehicle_reg"`
	Date       *string `json:"date"`
	TimeSlot   *string `json:"time_slot"`
	Status     *string `json:"status"`
}

// Update handles PUT /v1/admin/bookings/:id.  Absent fields are left
// unchanged; a change of date or time slot reallocates the bay in the
// destination slot.  Updating a cancelled booking returns 409.
func (h *AdminBookingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	var body updateBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		if err := validateName(*body.Name); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if body.Email != nil {
		if err := validateEmail(*body.Email); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if body.Phone != nil {
		if err := validatePhone(*body.Phone); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if body.VehicleReg != nil {
		if err := validateVehicleReg(*body.VehicleReg); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if body.Date != nil {
		if err := validateDate(*body.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if body.TimeSlot != nil {
		if err := validateTimeSlot(*body.TimeSlot); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	b, err := h.Bookings.Update(c.Request().Context(), id, booking.Patch{
		Name:       body.Name,
		Email:      body.Email,
		Phone:      body.Phone,
		VehicleReg: body.VehicleReg,
		Date:       body.Date,
		TimeSlot:   body.TimeSlot,
		Status:     body.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is cancelled"})
		case errors.Is(err, booking.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or cancelled"})
		case errors.Is(err, allocator.ErrNoCapacity):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no bay available for the new slot"})
		case errors.Is(err, repository.ErrBayConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot contention, please retry"})
		case errors.Is(err, repository.ErrGarageNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garage not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	if b.Status == model.BookingCancelled {
		publishBookingEvent(queue.KindBookingCancelled, b.ID, b.GarageID, b.Date, b.TimeSlot, b.Bay, b.VehicleReg)
	}

	return c.JSON(http.StatusOK, b)
}

// Cancel handles DELETE /v1/admin/bookings/:id.  Cancelling an
// already-cancelled booking is a no-op success; only an unknown id
// yields 404.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	wasActive := b.Status == model.BookingActive

	if err := h.Bookings.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if wasActive {
		publishBookingEvent(queue.KindBookingCancelled, b.ID, b.GarageID, b.Date, b.TimeSlot, b.Bay, b.VehicleReg)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled", "id": id})
}
