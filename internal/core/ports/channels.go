package ports

import (
	"context"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

// LiveChannel is the persistent bidirectional connection to the dispatcher.
type LiveChannel interface {
	Connect(ctx context.Context) error
	Connected() bool
	Emit(ctx context.Context, event string, payload any) error
	Close() error
}

// AudioPlayer owns the alert sound. Play starts a looping alert and returns
// immediately; Stop halts it and releases the device.
type AudioPlayer interface {
	Play(ctx context.Context) error
	Stop() error
}

// OfferPresenter shows an offer as a full-screen local notification.
type OfferPresenter interface {
	Present(ctx context.Context, offer domain.IncomingBookingOffer) error
	Dismiss(ctx context.Context, bookingID string) error
}

type LocationProvider interface {
	Current(ctx context.Context) (domain.Location, error)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
