package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

// LiveEventRouter dispatches events received on the live channel.
type LiveEventRouter struct {
	intake      *OfferIntake
	coordinator *ActionCoordinator
	tracker     *BookingTracker
	now         func() time.Time
	log         *slog.Logger
}

func NewLiveEventRouter(intake *OfferIntake, coordinator *ActionCoordinator, tracker *BookingTracker, log *slog.Logger) *LiveEventRouter {
	return &LiveEventRouter{
		intake:      intake,
		coordinator: coordinator,
		tracker:     tracker,
		now:         time.Now,
		log:         log,
	}
}

func (r *LiveEventRouter) Handle(ctx context.Context, ev domain.LiveEvent) {
	switch ev.Name {
	case domain.EventNewBooking:
		offer, err := domain.NormalizeOffer(ev.Data, domain.ChannelLive, r.now())
		if err != nil {
			r.log.Warn("malformed newBooking event", slog.String("error", err.Error()))
			return
		}
		if err := r.intake.Submit(ctx, offer); err != nil {
			r.log.Warn("failed to submit live offer", slog.String("error", err.Error()))
		}

	case domain.EventBookingCancelled:
		bookingID := eventBookingID(ev.Data)
		if bookingID == "" {
			r.log.Warn("bookingCancelled without booking id")
			return
		}
		r.coordinator.Withdraw(ctx, bookingID, "Booking is no longer available")
		if r.tracker.Tracks(bookingID) {
			if _, err := r.tracker.HandleCancelled(ctx, bookingID); err != nil {
				r.log.Warn("failed to resync cancelled booking",
					slog.String("booking_id", bookingID),
					slog.String("error", err.Error()),
				)
			}
		}

	case domain.EventBookingStatusUpdated:
		bookingID := eventBookingID(ev.Data)
		if bookingID == "" {
			r.tracker.ResyncAll(ctx)
			return
		}
		if !r.tracker.Tracks(bookingID) {
			return
		}
		if _, err := r.tracker.Resync(ctx, bookingID); err != nil {
			r.log.Warn("failed to resync booking",
				slog.String("booking_id", bookingID),
				slog.String("error", err.Error()),
			)
		}

	default:
		r.log.Debug("ignoring live event", slog.String("event", ev.Name))
	}
}

// eventBookingID accepts either {"bookingId": "..."} or a bare JSON string.
func eventBookingID(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}

	var ref domain.BookingRef
	if err := json.Unmarshal(data, &ref); err == nil && ref.BookingID != "" {
		return ref.BookingID
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	return ""
}
