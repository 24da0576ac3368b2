package ports

import (
	"context"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

type BookingCacheRepository interface {
	Upsert(ctx context.Context, booking *domain.BookingRecord) error
	GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error)
}

type OfferJournalRepository interface {
	RecordOffer(ctx context.Context, offer domain.IncomingBookingOffer) error
	RecordDecision(ctx context.Context, bookingID string, decision string, decidedAt time.Time) error
}

type OfferSnapshotRepository interface {
	Save(ctx context.Context, offer domain.IncomingBookingOffer) error
	Load(ctx context.Context) (*domain.IncomingBookingOffer, error)
	Clear(ctx context.Context) error
}

type SessionRepository interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
