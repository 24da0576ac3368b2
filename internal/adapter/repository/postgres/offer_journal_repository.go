package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

// OfferJournalRepository records every offer seen and the single decision
// taken on it.
type OfferJournalRepository struct {
	db *sql.DB
}

func NewOfferJournalRepository(db *sql.DB) *OfferJournalRepository {
	return &OfferJournalRepository{db: db}
}

func (r *OfferJournalRepository) RecordOffer(ctx context.Context, offer domain.IncomingBookingOffer) error {
	query := `
	INSERT INTO offer_journal (booking_id, channel, service_name, total_amount, received_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (booking_id) DO NOTHING
	`

	var total sql.NullInt64
	if offer.TotalAmount != nil {
		total = sql.NullInt64{Int64: *offer.TotalAmount, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, offer.BookingID, string(offer.Channel), offer.ServiceName, total, offer.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to journal offer %s: %w", offer.BookingID, err)
	}

	return nil
}

// RecordDecision stores the decision unless one is already recorded, in which
// case domain.ErrAlreadyDecided is returned.
func (r *OfferJournalRepository) RecordDecision(ctx context.Context, bookingID string, decision string, decidedAt time.Time) error {
	query := `
	INSERT INTO offer_journal (booking_id, decision, decided_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (booking_id) DO UPDATE
	SET decision = EXCLUDED.decision,
		decided_at = EXCLUDED.decided_at
	WHERE offer_journal.decision IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, bookingID, decision, decidedAt)
	if err != nil {
		return fmt.Errorf("failed to record decision for %s: %w", bookingID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrAlreadyDecided
	}

	return nil
}
