package handler_test

import (
	"context"
	"encoding/json"
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

type noToday struct{}

func (noToday) RefreshToday(context.Context) ([]domain.BookingRecord, error) { return nil, nil }

type alwaysConnected struct{}

func (alwaysConnected) EnsureConnected(context.Context) error { return nil }

type incomingFixture struct {
	store     *services.IncomingOfferStore
	notices   *services.NoticeBoard
	bookings  *mocks.BookingAPI
	live      *mocks.LiveChannel
	location  *mocks.LocationProvider
	presenter *mocks.OfferPresenter
	snapshots *mocks.OfferSnapshotRepository
	journal   *mocks.OfferJournalRepository
	router    http.Handler
}

func newIncomingFixture(t *testing.T) *incomingFixture {
	f := &incomingFixture{
		store:     services.NewIncomingOfferStore(),
		notices:   services.NewNoticeBoard(10),
		bookings:  mocks.NewBookingAPI(t),
		live:      mocks.NewLiveChannel(t),
		location:  mocks.NewLocationProvider(t),
		presenter: mocks.NewOfferPresenter(t),
		snapshots: mocks.NewOfferSnapshotRepository(t),
		journal:   mocks.NewOfferJournalRepository(t),
	}
	ringer := services.NewRinger(mocks.NewAudioPlayer(t), logging.Discard())
	coordinator := services.NewActionCoordinator(f.store, ringer, f.bookings, f.live, alwaysConnected{}, f.location, f.presenter,
		f.snapshots, f.journal, f.notices, noToday{}, logging.Discard())
	f.router = newRouter(handler.NewIncomingHandler(f.store, coordinator, f.notices))
	return f
}

func (f *incomingFixture) expectRetire(bookingID, decision string) {
	f.snapshots.On("Clear", mock.Anything).Return(nil).Once()
	f.presenter.On("Dismiss", mock.Anything, bookingID).Return(nil).Once()
	f.journal.On("RecordDecision", mock.Anything, bookingID, decision, mock.AnythingOfType("time.Time")).Return(nil).Once()
}

func offerFor(id string) domain.IncomingBookingOffer {
	total := int64(499)
	return domain.IncomingBookingOffer{
		BookingID:   id,
		ServiceName: "Full Wash",
		TotalAmount: &total,
		Channel:     domain.ChannelPush,
		ReceivedAt:  time.Now(),
	}
}

func TestIncomingHandler_Current(t *testing.T) {
	f := newIncomingFixture(t)
	require.True(t, f.store.Set(offerFor("B1")))

	w := perform(f.router, http.MethodGet, "/api/incoming", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var snap services.OfferSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Visible)
	require.NotNil(t, snap.Offer)
	assert.Equal(t, "B1", snap.Offer.BookingID)
}

func TestIncomingHandler_AcceptWithoutOffer(t *testing.T) {
	f := newIncomingFixture(t)

	w := perform(f.router, http.MethodPost, "/api/incoming/B1/accept", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIncomingHandler_AcceptTaken(t *testing.T) {
	f := newIncomingFixture(t)
	require.True(t, f.store.Set(offerFor("B1")))

	f.location.On("Current", mock.Anything).Return(domain.Location{Latitude: 1, Longitude: 2}, nil).Once()
	f.bookings.On("ConfirmBooking", mock.Anything, "B1", domain.Location{Latitude: 1, Longitude: 2}).
		Return(domain.ConflictError{Resource: "booking", Msg: "Booking already accepted by another partner"}).Once()
	f.expectRetire("B1", services.DecisionRejected)

	w := perform(f.router, http.MethodPost, "/api/incoming/B1/accept", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Booking already accepted by another partner", decodeError(t, w).Error)
	_, ok := f.store.Active()
	assert.False(t, ok)
}

func TestIncomingHandler_Decline(t *testing.T) {
	f := newIncomingFixture(t)
	require.True(t, f.store.Set(offerFor("B1")))

	f.live.On("Emit", mock.Anything, domain.EventDeclineBooking, domain.BookingRef{BookingID: "B1"}).Return(nil).Once()
	f.expectRetire("B1", services.DecisionDeclined)

	w := perform(f.router, http.MethodPost, "/api/incoming/B1/decline", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookingId":"B1","decision":"`+services.DecisionDeclined+`"}`, w.Body.String())

	w = perform(f.router, http.MethodGet, "/api/notices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Notices []domain.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Notices, 1)
	assert.Equal(t, "Booking Declined", body.Notices[0].Title)
}

func TestIncomingHandler_DeclineWhileChannelDown(t *testing.T) {
	f := newIncomingFixture(t)
	require.True(t, f.store.Set(offerFor("B1")))

	f.live.On("Emit", mock.Anything, domain.EventDeclineBooking, domain.BookingRef{BookingID: "B1"}).Return(domain.ErrLiveChannelDown).Once()

	w := perform(f.router, http.MethodPost, "/api/incoming/B1/decline", nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decodeError(t, w).Code)
	_, ok := f.store.Active()
	assert.True(t, ok)
}
