package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/adapter/handler"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports/mocks"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	bookings *mocks.BookingAPI
	payments *mocks.PaymentAPI
	live     *mocks.LiveChannel
	cache    *mocks.BookingCacheRepository
	router   http.Handler
}

func newBookingFixture(t *testing.T) *bookingFixture {
	f := &bookingFixture{
		bookings: mocks.NewBookingAPI(t),
		payments: mocks.NewPaymentAPI(t),
		live:     mocks.NewLiveChannel(t),
		cache:    mocks.NewBookingCacheRepository(t),
	}
	poller := services.NewPaymentPoller(f.payments, services.PollConfig{Interval: time.Hour, Timeout: time.Hour}, logging.Discard())
	tracker := services.NewBookingTracker(f.bookings, f.payments, f.live, f.cache, services.NewNoticeBoard(10), poller, logging.Discard())
	t.Cleanup(tracker.Close)
	f.router = newRouter(handler.NewBookingHandler(tracker))
	return f
}

func record(id string, status domain.BookingStatus) *domain.BookingRecord {
	return &domain.BookingRecord{
		ID:            id,
		BookingNumber: "BK-" + id,
		Status:        status,
		Pricing:       domain.Pricing{BasePrice: 600, Total: 600},
	}
}

func TestBookingHandler_GetBookingStaleFromCache(t *testing.T) {
	f := newBookingFixture(t)

	f.bookings.On("GetBooking", mock.Anything, "B1").Return(nil, domain.TransientError{Op: "get", Err: errors.New("connection refused")}).Once()
	f.cache.On("GetByID", mock.Anything, "B1").Return(record("B1", domain.BookingArrived), nil).Once()

	w := perform(f.router, http.MethodGet, "/api/bookings/B1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Booking domain.BookingRecord `json:"booking"`
		Stale   bool                 `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Stale)
	assert.Equal(t, domain.BookingArrived, body.Booking.Status)
}

func TestBookingHandler_IllegalTransition(t *testing.T) {
	f := newBookingFixture(t)

	f.bookings.On("GetBooking", mock.Anything, "B1").Return(record("B1", domain.BookingConfirmed), nil).Once()
	f.cache.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.BookingRecord")).Return(nil).Once()

	w := perform(f.router, http.MethodPost, "/api/bookings/B1/mark-arrived", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "illegal_transition", decodeError(t, w).Code)
}

func TestBookingHandler_VerifyOTPRejectsBadCode(t *testing.T) {
	f := newBookingFixture(t)

	w := perform(f.router, http.MethodPost, "/api/bookings/B1/verify-otp", map[string]string{"otp": "12a4"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decodeError(t, w).Code)
}

func TestBookingHandler_SplitRequiresAmount(t *testing.T) {
	f := newBookingFixture(t)

	w := perform(f.router, http.MethodPost, "/api/bookings/B1/payments/split", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_SplitOutOfRange(t *testing.T) {
	f := newBookingFixture(t)

	f.bookings.On("GetBooking", mock.Anything, "B1").Return(record("B1", domain.BookingInProgress), nil).Once()
	f.cache.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.BookingRecord")).Return(nil).Once()

	w := perform(f.router, http.MethodPost, "/api/bookings/B1/payments/split", map[string]any{"onlineAmount": 600})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_OnlineCollectionSession(t *testing.T) {
	f := newBookingFixture(t)

	f.bookings.On("GetBooking", mock.Anything, "B1").Return(record("B1", domain.BookingInProgress), nil).Once()
	f.cache.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.BookingRecord")).Return(nil).Once()
	f.payments.On("CreateUPIQR", mock.Anything, domain.QRRequest{Amount: 600, BookingID: "B1", BookingNumber: "BK-B1"}).
		Return(&domain.QRCode{ImageURL: "https://qr/1.png", CodeID: "QR1", Amount: 600}, nil).Once()

	w := perform(f.router, http.MethodPost, "/api/bookings/B1/payments/online", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = perform(f.router, http.MethodGet, "/api/bookings/B1/payments/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		QR domain.QRCode `json:"qr"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "QR1", body.QR.CodeID)

	w = perform(f.router, http.MethodDelete, "/api/bookings/B1/payments/session", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(f.router, http.MethodGet, "/api/bookings/B1/payments/session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
