package ports

import (
	"context"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

type PartnerAPI interface {
	GetPartner(ctx context.Context) (*domain.Partner, error)
	UpdateAvailability(ctx context.Context, available bool) (*domain.Partner, error)
	UpdatePushToken(ctx context.Context, pushToken string) error
}

type BookingAPI interface {
	ConfirmBooking(ctx context.Context, bookingID string, location domain.Location) error
	GetBooking(ctx context.Context, bookingID string) (*domain.BookingRecord, error)
	ListTodayBookings(ctx context.Context) ([]domain.BookingRecord, error)
	StartService(ctx context.Context, bookingID string) error
	MarkArrived(ctx context.Context, bookingID string) error
	VerifyOTP(ctx context.Context, bookingID string, otp string) error
	CollectPayment(ctx context.Context, bookingID string, req domain.CollectPaymentRequest) error
}

type PaymentAPI interface {
	CreateUPIQR(ctx context.Context, req domain.QRRequest) (*domain.QRCode, error)
	GetPaymentStatus(ctx context.Context, codeID string) (*domain.PaymentStatus, error)
}
