package postgres_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/srgjo27/partner_dispatch/internal/adapter/repository/postgres"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestBookingRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBookingRepository(db)

	rec := &domain.BookingRecord{ID: "B1", Status: domain.BookingConfirmed, Pricing: domain.Pricing{Total: 499}}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_cache")).
		WithArgs("B1", "confirmed", int64(499), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), rec))
}

func TestBookingRepository_UpsertRequiresID(t *testing.T) {
	db, _ := newMockDB(t)
	repo := postgres.NewBookingRepository(db)

	err := repo.Upsert(context.Background(), &domain.BookingRecord{})
	assert.True(t, domain.IsValidation(err))
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBookingRepository(db)

	payload, err := json.Marshal(domain.BookingRecord{ID: "B1", Status: domain.BookingArrived, ServiceName: "Full Wash"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	rec, err := repo.GetByID(context.Background(), "B1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingArrived, rec.Status)
	assert.Equal(t, "Full Wash", rec.ServiceName)
}

func TestBookingRepository_GetByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WithArgs("B404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "B404")

	assert.True(t, domain.IsNotFound(err))
	assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
}
