package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingEnroute    BookingStatus = "enroute"
	BookingArrived    BookingStatus = "arrived"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingFailed     BookingStatus = "failed"
)

// nextStatus lists the only forward move allowed from each status.
var nextStatus = map[BookingStatus]BookingStatus{
	BookingConfirmed:  BookingEnroute,
	BookingEnroute:    BookingArrived,
	BookingArrived:    BookingInProgress,
	BookingInProgress: BookingCompleted,
}

func (s BookingStatus) Next() (BookingStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingFailed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingEnroute, BookingArrived, BookingInProgress,
		BookingCompleted, BookingCancelled, BookingFailed:
		return true
	}
	return false
}

// CheckTransition returns a TransitionError unless to is the designated
// successor of from.
func CheckTransition(bookingID string, from, to BookingStatus) error {
	if next, ok := from.Next(); ok && next == to {
		return nil
	}
	return TransitionError{BookingID: bookingID, From: from, To: to}
}

type Pricing struct {
	BasePrice       int64 `json:"basePrice"`
	Tax             int64 `json:"tax"`
	PlatformCharges int64 `json:"platformCharges"`
	Discount        int64 `json:"discount"`
	Total           int64 `json:"total"`
}

func (p Pricing) Validate() error {
	for name, v := range map[string]int64{
		"basePrice":       p.BasePrice,
		"tax":             p.Tax,
		"platformCharges": p.PlatformCharges,
		"discount":        p.Discount,
		"total":           p.Total,
	} {
		if v < 0 {
			return ValidationError{Field: name, Msg: "must not be negative"}
		}
	}
	if want := p.BasePrice + p.Tax + p.PlatformCharges - p.Discount; want != p.Total {
		return ValidationError{Field: "total", Msg: fmt.Sprintf("expected %d, got %d", want, p.Total)}
	}
	return nil
}

type SplitStatus string

const (
	SplitPending   SplitStatus = "pending"
	SplitCompleted SplitStatus = "completed"
)

type PaymentSplit struct {
	OnlineAmount    int64       `json:"onlineAmount"`
	CashAmount      int64       `json:"cashAmount"`
	OnlinePaidAt    *time.Time  `json:"onlinePaidAt,omitempty"`
	CashCollectedAt *time.Time  `json:"cashCollectedAt,omitempty"`
	Status          SplitStatus `json:"status"`
}

type ServiceLocation struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type CustomerRef struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type VehicleDetails struct {
	Type   string `json:"type,omitempty"`
	Model  string `json:"model,omitempty"`
	Number string `json:"number,omitempty"`
}

// BookingRecord is the backend's booking entity. ID addresses the booking in
// partner routes; BookingNumber is the human-facing number.
type BookingRecord struct {
	ID              string          `json:"_id"`
	BookingNumber   string          `json:"bookingId"`
	Status          BookingStatus   `json:"status"`
	ServiceName     string          `json:"serviceName,omitempty"`
	ScheduledDate   string          `json:"scheduledDate,omitempty"`
	ScheduledTime   string          `json:"scheduledTime,omitempty"`
	Pricing         Pricing         `json:"pricing"`
	PaymentType     string          `json:"paymentType,omitempty"`
	PaymentSplit    *PaymentSplit   `json:"paymentSplit,omitempty"`
	OTP             string          `json:"otp,omitempty"`
	ServiceLocation ServiceLocation `json:"serviceLocation"`
	Customer        *CustomerRef    `json:"customer,omitempty"`
	VehicleDetails  *VehicleDetails `json:"vehicleDetails,omitempty"`
}

func (b *BookingRecord) IsPaid() bool {
	return b.PaymentSplit != nil && b.PaymentSplit.Status == SplitCompleted
}

// CheckSettled verifies that a completed split covers the total exactly.
func (b *BookingRecord) CheckSettled() error {
	if !b.IsPaid() {
		return nil
	}
	if b.PaymentSplit.OnlineAmount+b.PaymentSplit.CashAmount != b.Pricing.Total {
		return ErrPaymentMismatch
	}
	return nil
}
