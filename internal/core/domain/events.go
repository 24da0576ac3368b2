package domain

import "encoding/json"

// Live channel events consumed from the backend.
const (
	EventNewBooking           = "newBooking"
	EventBookingCancelled     = "bookingCancelled"
	EventBookingStatusUpdated = "booking.status.updated"
)

// Live channel events emitted by the partner.
const (
	EventGoOnline            = "goOnline"
	EventGoOffline           = "goOffline"
	EventAcceptBooking       = "acceptBooking"
	EventDeclineBooking      = "declineBooking"
	EventBookingStatusChange = "booking.status.change"
)

// PushTypeNewBooking is the "type" of push and local notification data
// messages that carry an offer.
const PushTypeNewBooking = "new_booking"

type LiveEvent struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

type BookingRef struct {
	BookingID string `json:"bookingId"`
}

type StatusChange struct {
	BookingID string        `json:"bookingId"`
	Status    BookingStatus `json:"status"`
}
