package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/srgjo27/partner_dispatch/internal/adapter/repository/postgres"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferJournalRepository_RecordOffer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewOfferJournalRepository(db)
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	total := int64(650)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offer_journal (booking_id, channel")).
		WithArgs("B1", "push", "Deep Clean", int64(650), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offer_journal (booking_id, channel")).
		WithArgs("B2", "live", "", nil, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.RecordOffer(ctx, domain.IncomingBookingOffer{
		BookingID: "B1", ServiceName: "Deep Clean", TotalAmount: &total, Channel: domain.ChannelPush, ReceivedAt: at,
	}))
	require.NoError(t, repo.RecordOffer(ctx, domain.IncomingBookingOffer{
		BookingID: "B2", Channel: domain.ChannelLive, ReceivedAt: at,
	}))
}

func TestOfferJournalRepository_RecordDecisionOnce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewOfferJournalRepository(db)
	ctx := context.Background()
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offer_journal (booking_id, decision")).
		WithArgs("B1", "accepted", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offer_journal (booking_id, decision")).
		WithArgs("B1", "declined", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RecordDecision(ctx, "B1", "accepted", at))
	assert.ErrorIs(t, repo.RecordDecision(ctx, "B1", "declined", at), domain.ErrAlreadyDecided)
}

func TestOfferJournalRepository_RecordDecisionFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewOfferJournalRepository(db)
	dbErr := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offer_journal (booking_id, decision")).
		WillReturnError(dbErr)

	err := repo.RecordDecision(context.Background(), "B1", "withdrawn", time.Now())
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, domain.ErrAlreadyDecided)
}
