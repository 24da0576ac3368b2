package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

type IntakeConfig struct {
	Buffer int
	// OfferTTL expires an unanswered offer; zero keeps offers until a
	// decision, a cancellation or a restart.
	OfferTTL time.Duration
}

// OfferIntake is the single consumer of offers coming from every delivery
// channel. Producers call Submit; Run applies them one at a time.
type OfferIntake struct {
	store     *IncomingOfferStore
	ringer    *Ringer
	presenter ports.OfferPresenter
	snapshots ports.OfferSnapshotRepository
	journal   ports.OfferJournalRepository
	notices   *NoticeBoard
	ttl       time.Duration
	events    chan domain.IncomingBookingOffer
	now       func() time.Time
	log       *slog.Logger
}

func NewOfferIntake(
	store *IncomingOfferStore,
	ringer *Ringer,
	presenter ports.OfferPresenter,
	snapshots ports.OfferSnapshotRepository,
	journal ports.OfferJournalRepository,
	notices *NoticeBoard,
	cfg IntakeConfig,
	log *slog.Logger,
) *OfferIntake {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 16
	}
	return &OfferIntake{
		store:     store,
		ringer:    ringer,
		presenter: presenter,
		snapshots: snapshots,
		journal:   journal,
		notices:   notices,
		ttl:       cfg.OfferTTL,
		events:    make(chan domain.IncomingBookingOffer, buffer),
		now:       time.Now,
		log:       log,
	}
}

func (i *OfferIntake) Submit(ctx context.Context, offer domain.IncomingBookingOffer) error {
	if offer.ReceivedAt.IsZero() {
		offer.ReceivedAt = i.now()
	}
	select {
	case i.events <- offer:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *OfferIntake) Run(ctx context.Context) {
	var expiry <-chan time.Time
	if i.ttl > 0 {
		ticker := time.NewTicker(expiryCheckInterval(i.ttl))
		defer ticker.Stop()
		expiry = ticker.C
	}

	i.log.Info("offer intake started", slog.Duration("offer_ttl", i.ttl))

	for {
		select {
		case <-ctx.Done():
			i.log.Info("offer intake stopped")
			return
		case offer := <-i.events:
			i.Apply(ctx, offer)
		case <-expiry:
			i.ExpireStale(ctx)
		}
	}
}

// Apply writes offer to the store. Only an effective write starts the ringer
// and fans out to persistence and the local notification, so the same booking
// arriving from several channels alerts once.
func (i *OfferIntake) Apply(ctx context.Context, offer domain.IncomingBookingOffer) bool {
	channel := string(offer.Channel)

	if !i.store.Set(offer) {
		metrics.IncOfferDuplicate(channel)
		i.log.Debug("duplicate offer ignored",
			slog.String("booking_id", offer.BookingID),
			slog.String("channel", channel),
		)
		return false
	}

	metrics.IncOfferReceived(channel)
	i.log.Info("incoming booking offer",
		slog.String("booking_id", offer.BookingID),
		slog.String("channel", channel),
		slog.String("amount", offer.DisplayAmount()),
	)

	if _, err := i.ringer.Start(ctx); err != nil {
		i.log.Error("failed to start ringer", slog.String("error", err.Error()))
	}

	if err := i.snapshots.Save(ctx, offer); err != nil {
		i.log.Warn("failed to persist offer snapshot",
			slog.String("booking_id", offer.BookingID),
			slog.String("error", err.Error()),
		)
	}

	if offer.Actionable() {
		if err := i.journal.RecordOffer(ctx, offer); err != nil {
			i.log.Warn("failed to journal offer",
				slog.String("booking_id", offer.BookingID),
				slog.String("error", err.Error()),
			)
		}
	}

	if offer.Channel == domain.ChannelPush {
		if err := i.presenter.Present(ctx, offer); err != nil {
			i.log.Warn("failed to present offer notification",
				slog.String("booking_id", offer.BookingID),
				slog.String("error", err.Error()),
			)
		}
	}

	return true
}

// Restore re-applies an offer persisted before the process stopped.
func (i *OfferIntake) Restore(ctx context.Context) error {
	offer, err := i.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if offer == nil {
		return nil
	}
	if i.expired(*offer) {
		i.log.Info("discarding expired offer snapshot", slog.String("booking_id", offer.BookingID))
		return i.snapshots.Clear(ctx)
	}

	i.log.Info("restoring offer snapshot", slog.String("booking_id", offer.BookingID))
	i.Apply(ctx, *offer)
	return nil
}

// ExpireStale retires the active offer once it has waited longer than the TTL.
// An offer with a decision in flight is left alone.
func (i *OfferIntake) ExpireStale(ctx context.Context) {
	offer, ok := i.store.Active()
	if !ok || !i.expired(offer) {
		return
	}
	if !i.store.ClearIfIdle(offer.BookingID) {
		return
	}

	i.ringer.Stop()
	if err := i.presenter.Dismiss(ctx, offer.BookingID); err != nil {
		i.log.Warn("failed to dismiss offer notification", slog.String("error", err.Error()))
	}
	if err := i.snapshots.Clear(ctx); err != nil {
		i.log.Warn("failed to clear offer snapshot", slog.String("error", err.Error()))
	}
	if offer.Actionable() {
		if err := i.journal.RecordDecision(ctx, offer.BookingID, DecisionExpired, i.now()); err != nil {
			i.log.Warn("failed to journal expiry", slog.String("error", err.Error()))
		}
	}

	i.notices.Publish(domain.NoticeInfo, offer.BookingID, "Booking request expired", offer.DisplayService())
	i.log.Info("offer expired", slog.String("booking_id", offer.BookingID))
}

func (i *OfferIntake) expired(offer domain.IncomingBookingOffer) bool {
	if i.ttl <= 0 || offer.ReceivedAt.IsZero() {
		return false
	}
	return i.now().Sub(offer.ReceivedAt) >= i.ttl
}

func expiryCheckInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > time.Second {
		interval = time.Second
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	return interval
}
