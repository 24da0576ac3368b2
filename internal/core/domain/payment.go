package domain

import "fmt"

type PaymentMode string

const (
	PaymentFullOnline PaymentMode = "full-online"
	PaymentFullCash   PaymentMode = "full-cash"
	PaymentSplitMode  PaymentMode = "split"
)

// CollectPaymentRequest is the body of the collect-payment call. Amounts are
// in the smallest currency unit.
type CollectPaymentRequest struct {
	PaymentMode  PaymentMode `json:"paymentMode"`
	OnlineAmount *int64      `json:"onlineAmount,omitempty"`
	CashAmount   *int64      `json:"cashAmount,omitempty"`
}

func (r CollectPaymentRequest) Online() int64 {
	if r.OnlineAmount == nil {
		return 0
	}
	return *r.OnlineAmount
}

func (r CollectPaymentRequest) Cash() int64 {
	if r.CashAmount == nil {
		return 0
	}
	return *r.CashAmount
}

// Validate enforces online + cash == total and the shape each mode allows.
func (r CollectPaymentRequest) Validate(total int64) error {
	if total <= 0 {
		return ValidationError{Field: "total", Msg: "booking total must be positive"}
	}
	if r.Online() < 0 || r.Cash() < 0 {
		return ValidationError{Field: "amount", Msg: "amounts must not be negative"}
	}
	if r.Online()+r.Cash() != total {
		return ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("online %d + cash %d must equal total %d", r.Online(), r.Cash(), total),
			Err:   ErrPaymentMismatch,
		}
	}

	switch r.PaymentMode {
	case PaymentFullOnline:
		if r.Cash() != 0 {
			return ValidationError{Field: "cashAmount", Msg: "full-online payment carries no cash", Err: ErrPaymentMismatch}
		}
	case PaymentFullCash:
		if r.Online() != 0 {
			return ValidationError{Field: "onlineAmount", Msg: "full-cash payment carries no online amount", Err: ErrPaymentMismatch}
		}
	case PaymentSplitMode:
		if r.Online() <= 0 || r.Online() >= total {
			return ValidationError{Field: "onlineAmount", Msg: ErrInvalidSplit.Error(), Err: ErrInvalidSplit}
		}
	default:
		return ValidationError{Field: "paymentMode", Msg: fmt.Sprintf("unknown payment mode %q", r.PaymentMode)}
	}
	return nil
}

func NewOnlineCollection(total int64) (CollectPaymentRequest, error) {
	req := CollectPaymentRequest{PaymentMode: PaymentFullOnline, OnlineAmount: &total}
	return req, req.Validate(total)
}

func NewCashCollection(total int64) (CollectPaymentRequest, error) {
	req := CollectPaymentRequest{PaymentMode: PaymentFullCash, CashAmount: &total}
	return req, req.Validate(total)
}

// NewSplitCollection attributes online to the QR and the remainder to cash.
func NewSplitCollection(total, online int64) (CollectPaymentRequest, error) {
	cash := total - online
	req := CollectPaymentRequest{PaymentMode: PaymentSplitMode, OnlineAmount: &online, CashAmount: &cash}
	return req, req.Validate(total)
}

type QRRequest struct {
	Amount        int64  `json:"amount"`
	BookingID     string `json:"bookingId"`
	BookingNumber string `json:"bookingNumber"`
}

type QRCode struct {
	ImageURL string `json:"imageUrl"`
	CodeID   string `json:"qrCodeId"`
	Amount   int64  `json:"amount"`
}

type PaymentState string

const (
	PaymentPending   PaymentState = "pending"
	PaymentPartial   PaymentState = "partial"
	PaymentCompleted PaymentState = "completed"
)

type PaymentStatus struct {
	Status     PaymentState `json:"status"`
	TotalPaid  int64        `json:"totalPaid"`
	OnlinePaid int64        `json:"onlinePaid"`
}
