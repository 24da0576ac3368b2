package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

const (
	DecisionAccepted  = "accepted"
	DecisionRejected  = "rejected"
	DecisionDeclined  = "declined"
	DecisionWithdrawn = "withdrawn"
	DecisionExpired   = "expired"
)

const defaultTakenReason = "Booking already taken"

type todayRefresher interface {
	RefreshToday(ctx context.Context) ([]domain.BookingRecord, error)
}

type liveConnector interface {
	EnsureConnected(ctx context.Context) error
}

// ActionCoordinator turns the partner's accept/decline on the active offer
// into an outcome on the backend and the live channel.
type ActionCoordinator struct {
	store     *IncomingOfferStore
	ringer    *Ringer
	bookings  ports.BookingAPI
	live      ports.LiveChannel
	connector liveConnector
	location  ports.LocationProvider
	presenter ports.OfferPresenter
	snapshots ports.OfferSnapshotRepository
	journal   ports.OfferJournalRepository
	notices   *NoticeBoard
	today     todayRefresher
	now       func() time.Time
	log       *slog.Logger
}

func NewActionCoordinator(
	store *IncomingOfferStore,
	ringer *Ringer,
	bookings ports.BookingAPI,
	live ports.LiveChannel,
	connector liveConnector,
	location ports.LocationProvider,
	presenter ports.OfferPresenter,
	snapshots ports.OfferSnapshotRepository,
	journal ports.OfferJournalRepository,
	notices *NoticeBoard,
	today todayRefresher,
	log *slog.Logger,
) *ActionCoordinator {
	return &ActionCoordinator{
		store:     store,
		ringer:    ringer,
		bookings:  bookings,
		live:      live,
		connector: connector,
		location:  location,
		presenter: presenter,
		snapshots: snapshots,
		journal:   journal,
		notices:   notices,
		today:     today,
		now:       time.Now,
		log:       log,
	}
}

// Accept confirms the active offer on the backend. The ringer is silenced
// before the network call. A transient failure keeps the offer so the partner
// can retry; any other failure retires it, since it can no longer be claimed.
func (c *ActionCoordinator) Accept(ctx context.Context, bookingID string) error {
	offer, err := c.store.BeginDecision(bookingID)
	if err != nil {
		return err
	}
	defer c.store.EndDecision(bookingID)

	c.ringer.Stop()

	if err := c.bookings.ConfirmBooking(ctx, bookingID, c.partnerLocation(ctx)); err != nil {
		if domain.IsTransient(err) || errors.Is(err, context.Canceled) {
			metrics.IncOfferDecision(DecisionAccepted, "retryable")
			c.notices.Publish(domain.NoticeError, bookingID, "Could not accept booking", domain.Message(err))
			return fmt.Errorf("accept booking %s: %w", bookingID, err)
		}

		metrics.IncOfferDecision(DecisionAccepted, "rejected")
		c.log.Warn("booking confirmation refused",
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
		c.notices.Publish(domain.NoticeError, bookingID, rejectionReason(err), offer.DisplayService())
		c.retire(ctx, bookingID, DecisionRejected)
		return fmt.Errorf("accept booking %s: %w", bookingID, err)
	}

	metrics.IncOfferDecision(DecisionAccepted, "ok")
	c.notices.Publish(domain.NoticeSuccess, bookingID, "Booking Accepted!", offer.DisplayService())
	c.retire(ctx, bookingID, DecisionAccepted)

	// The backend already owns the booking; a lost announcement is reported
	// but does not undo the accept.
	if err := c.announce(ctx, domain.EventAcceptBooking, bookingID); err != nil {
		c.log.Warn("failed to announce acceptance on live channel",
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
		c.notices.Publish(domain.NoticeError, bookingID, "Acceptance not announced", domain.Message(err))
	}

	if _, err := c.today.RefreshToday(ctx); err != nil {
		c.log.Warn("failed to refresh today's bookings", slog.String("error", err.Error()))
	}
	return nil
}

// Decline is advisory for the dispatcher: it is announced on the live channel
// and the offer is dropped locally, with no backend call. The live channel is
// the only way the decline reaches the dispatcher, so when it cannot be
// delivered the offer stays up for another try.
func (c *ActionCoordinator) Decline(ctx context.Context, bookingID string) error {
	if _, err := c.store.BeginDecision(bookingID); err != nil {
		return err
	}
	defer c.store.EndDecision(bookingID)

	c.ringer.Stop()

	if err := c.announce(ctx, domain.EventDeclineBooking, bookingID); err != nil {
		metrics.IncOfferDecision(DecisionDeclined, "retryable")
		c.log.Warn("failed to announce decline on live channel",
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
		c.notices.Publish(domain.NoticeError, bookingID, "Decline not delivered", domain.Message(err))
		return fmt.Errorf("decline booking %s: %w", bookingID, err)
	}

	metrics.IncOfferDecision(DecisionDeclined, "ok")
	c.retire(ctx, bookingID, DecisionDeclined)
	c.notices.Publish(domain.NoticeInfo, bookingID, "Booking Declined", "")
	return nil
}

// Withdraw drops the offer for bookingID after the dispatcher reported it gone.
func (c *ActionCoordinator) Withdraw(ctx context.Context, bookingID, reason string) bool {
	if _, ok := c.activeOffer(bookingID); !ok {
		return false
	}
	if !c.retire(ctx, bookingID, DecisionWithdrawn) {
		return false
	}
	metrics.IncOfferDecision(DecisionWithdrawn, "ok")
	c.notices.Publish(domain.NoticeInfo, bookingID, reason, "")
	return true
}

// Reset silences the alert and drops whatever offer is active, e.g. when the
// session ends.
func (c *ActionCoordinator) Reset(ctx context.Context) {
	c.ringer.Stop()
	offer, ok := c.store.Active()
	if !c.store.Clear() {
		return
	}
	if ok {
		c.dismiss(ctx, offer.BookingID)
	}
	if err := c.snapshots.Clear(ctx); err != nil {
		c.log.Warn("failed to clear offer snapshot", slog.String("error", err.Error()))
	}
}

// retire clears the offer for bookingID and its side channels. If another
// offer is still waiting afterwards the ringer is resumed for it.
func (c *ActionCoordinator) retire(ctx context.Context, bookingID, decision string) bool {
	cleared := c.store.Retire(bookingID)
	if cleared {
		c.ringer.Stop()
		if err := c.snapshots.Clear(ctx); err != nil {
			c.log.Warn("failed to clear offer snapshot", slog.String("error", err.Error()))
		}
	}

	c.dismiss(ctx, bookingID)

	if err := c.journal.RecordDecision(ctx, bookingID, decision, c.now()); err != nil && !errors.Is(err, domain.ErrAlreadyDecided) {
		c.log.Warn("failed to journal decision",
			slog.String("booking_id", bookingID),
			slog.String("decision", decision),
			slog.String("error", err.Error()),
		)
	}

	if _, pending := c.store.Active(); pending {
		if _, err := c.ringer.Start(ctx); err != nil {
			c.log.Error("failed to resume ringer", slog.String("error", err.Error()))
		}
	}
	return cleared
}

// announce reconnects the live channel if needed and emits event for bookingID.
func (c *ActionCoordinator) announce(ctx context.Context, event, bookingID string) error {
	if err := c.connector.EnsureConnected(ctx); err != nil {
		return err
	}
	return c.live.Emit(ctx, event, domain.BookingRef{BookingID: bookingID})
}

func (c *ActionCoordinator) dismiss(ctx context.Context, bookingID string) {
	if err := c.presenter.Dismiss(ctx, bookingID); err != nil {
		c.log.Warn("failed to dismiss offer notification",
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
	}
}

func (c *ActionCoordinator) activeOffer(bookingID string) (domain.IncomingBookingOffer, bool) {
	offer, ok := c.store.Active()
	if !ok || offer.BookingID != bookingID {
		return domain.IncomingBookingOffer{}, false
	}
	return offer, true
}

// partnerLocation falls back to the placeholder location when the device has
// not reported one.
func (c *ActionCoordinator) partnerLocation(ctx context.Context) domain.Location {
	loc, err := c.location.Current(ctx)
	if err != nil {
		c.log.Warn("partner location unavailable, confirming with placeholder",
			slog.String("error", err.Error()),
		)
		return domain.PlaceholderLocation
	}
	return loc
}

func rejectionReason(err error) string {
	var conflict domain.ConflictError
	if errors.As(err, &conflict) && conflict.Msg != "" {
		return conflict.Msg
	}
	var validation domain.ValidationError
	if errors.As(err, &validation) && validation.Msg != "" {
		return validation.Msg
	}
	if domain.IsUnauthorized(err) {
		return domain.Message(err)
	}
	return defaultTakenReason
}
