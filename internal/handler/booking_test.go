package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/garage-bay-booking/internal/model"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/service/booking"
)

type fakeGarageStore struct {
	garages map[uint64]*model.Garage
}

func (f *fakeGarageStore) GetByID(ctx context.Context, id uint64) (*model.Garage, error) {
	g, ok := f.garages[id]
	if !ok {
		return nil, repository.ErrGarageNotFound
	}
	cp := *g
	return &cp, nil
}

// fakeBookingStore keeps bookings in memory and enforces the active-bay
// uniqueness invariant the way the real table does.
type fakeBookingStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{nextID: 1, bookings: map[uint64]*model.Booking{}}
}

func (f *fakeBookingStore) OccupiedBays(ctx context.Context, garageID uint64, date, timeSlot string, excludeID uint64) (map[uint32]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint32]bool{}
	for _, b := range f.bookings {
		if b.GarageID == garageID && b.Date == date && b.TimeSlot == timeSlot &&
			b.Status == model.BookingActive && b.ID != excludeID {
			out[b.Bay] = true
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Insert(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.bookings {
		if other.GarageID == b.GarageID && other.Date == b.Date && other.TimeSlot == b.TimeSlot &&
			other.Status == model.BookingActive && other.Bay == b.Bay {
			return repository.ErrBayConflict
		}
	}
	b.ID = f.nextID
	f.nextID++
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) Update(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.bookings[b.ID]
	if !ok || cur.Status != model.BookingActive {
		return repository.ErrBookingNotFound
	}
	for _, other := range f.bookings {
		if other.ID != b.ID && other.GarageID == b.GarageID && other.Date == b.Date &&
			other.TimeSlot == b.TimeSlot && other.Status == model.BookingActive && other.Bay == b.Bay &&
			b.Status == model.BookingActive {
			return repository.ErrBayConflict
		}
	}
	cp := *b
	cp.UpdatedAt = time.Now()
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) Cancel(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status = model.BookingCancelled
	return nil
}

func (f *fakeBookingStore) List(ctx context.Context) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Booking, 0, len(f.bookings))
	for id := uint64(1); id < f.nextID; id++ {
		if b, ok := f.bookings[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func newBookingEcho(bayCount uint32) *echo.Echo {
	garages := &fakeGarageStore{garages: map[uint64]*model.Garage{
		1: {ID: 1, Name: "Main MOT Garage", BayCount: bayCount},
	}}
	svc := booking.NewService(garages, newFakeBookingStore())
	h := NewBookingHandler(svc)

	e := echo.New()
	e.POST("/v1/bookings", h.Create)
	return e
}

func postBooking(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validBookingBody = `{
	"name": "Jane Smith",
	"email": "jane@example.com",
	"phone": "+44 7700 900123",
	"vehicle_reg": "AB12CDE",
	"date": "2026-09-01",
	"time_slot": "09:00",
	"garage_id": 1
}`

func TestCreateBookingAssignsFirstFreeBay(t *testing.T) {
	e := newBookingEcho(2)

	rec := postBooking(e, validBookingBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var b model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, uint32(1), b.Bay)
	assert.Equal(t, model.BookingActive, b.Status)

	rec2 := postBooking(e, validBookingBody)
	require.Equal(t, http.StatusCreated, rec2.Code)
	var b2 model.Booking
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &b2))
	assert.Equal(t, uint32(2), b2.Bay)
}

func TestCreateBookingFullSlotConflicts(t *testing.T) {
	e := newBookingEcho(1)

	rec := postBooking(e, validBookingBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec2 := postBooking(e, validBookingBody)
	assert.Equal(t, http.StatusConflict, rec2.Code)
}

func TestCreateBookingUnknownGarage(t *testing.T) {
	e := newBookingEcho(2)
	body := strings.Replace(validBookingBody, `"garage_id": 1`, `"garage_id": 99`, 1)
	rec := postBooking(e, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookingValidation(t *testing.T) {
	e := newBookingEcho(2)

	cases := []struct {
		name string
		old  string
		new  string
	}{
		{"empty name", `"Jane Smith"`, `""`},
		{"bad email", `"jane@example.com"`, `"jane"`},
		{"bad phone", `"+44 7700 900123"`, `"dial-me"`},
		{"short reg", `"AB12CDE"`, `"AB"`},
		{"bad date", `"2026-09-01"`, `"2026-02-30"`},
		{"bad slot", `"09:00"`, `"9am"`},
		{"zero garage", `"garage_id": 1`, `"garage_id": 0`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postBooking(e, strings.Replace(validBookingBody, tc.old, tc.new, 1))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
