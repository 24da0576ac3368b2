package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

// BookingRepository is the local booking cache. The backend stays the source
// of truth; rows are only written after a successful fetch.
type BookingRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db, now: time.Now}
}

func (r *BookingRepository) Upsert(ctx context.Context, booking *domain.BookingRecord) error {
	if booking == nil || booking.ID == "" {
		return domain.ValidationError{Field: "booking_id", Msg: "booking id is required"}
	}

	payload, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to encode booking %s: %w", booking.ID, err)
	}

	query := `
	INSERT INTO booking_cache (booking_id, status, total_amount, payload, refreshed_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (booking_id) DO UPDATE
	SET status = EXCLUDED.status,
		total_amount = EXCLUDED.total_amount,
		payload = EXCLUDED.payload,
		refreshed_at = EXCLUDED.refreshed_at
	`

	_, err = r.db.ExecContext(ctx, query, booking.ID, booking.Status, booking.Pricing.Total, payload, r.now())
	if err != nil {
		return fmt.Errorf("failed to cache booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	query := `
	SELECT payload
	FROM booking_cache
	WHERE booking_id = $1
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "booking " + bookingID, Err: domain.ErrBookingNotFound}
		}

		return nil, err
	}

	var booking domain.BookingRecord
	if err := json.Unmarshal(payload, &booking); err != nil {
		return nil, fmt.Errorf("failed to decode cached booking %s: %w", bookingID, err)
	}

	return &booking, nil
}
