package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/garage-bay-booking/internal/repository"
)

// GarageHandler serves the public read-only garage endpoints.  Both
// endpoints sit behind the Redis response cache, so repeated polling
// of availability stays cheap.
type GarageHandler struct {
	Garages  *repository.GarageRepo
	Bookings *repository.BookingRepo
}

// NewGarageHandler constructs a GarageHandler.  Both repositories must
// be non-nil.
func NewGarageHandler(garages *repository.GarageRepo, bookings *repository.BookingRepo) *GarageHandler {
	if garages == nil || bookings == nil {
		panic("nil repository passed to NewGarageHandler")
	}
	return &GarageHandler{Garages: garages, Bookings: bookings}
}

// List handles GET /v1/garages and returns every garage with its bay
// count.
func (h *GarageHandler) List(c echo.Context) error {
	garages, err := h.Garages.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(garages))
	for _, g := range garages {
		out = append(out, echo.Map{
			"id":        g.ID,
			"name":      g.Name,
			"bay_count": g.BayCount,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"garages": out})
}

// Availability handles GET /v1/garages/:id/availability.  It requires
// date and time_slot query parameters and returns the occupied and
// free bay numbers for that slot.
func (h *GarageHandler) Availability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid garage id"})
	}
	date := c.QueryParam("date")
	slot := c.QueryParam("time_slot")
	if err := validateDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateTimeSlot(slot); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	garage, err := h.Garages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGarageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garage not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	occupied, err := h.Bookings.OccupiedBays(ctx, id, date, slot, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	occ := make([]uint32, 0, len(occupied))
	free := make([]uint32, 0, int(garage.BayCount))
	for bay := uint32(1); bay <= garage.BayCount; bay++ {
		if occupied[bay] {
			occ = append(occ, bay)
		} else {
			free = append(free, bay)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"garage_id": garage.ID,
		"date":      date,
		"time_slot": slot,
		"bay_count": garage.BayCount,
		"occupied":  occ,
		"free":      free,
	})
}
