package domain

import (
	"strconv"
	"strings"
	"time"
)

// NotAvailable is shown in place of any offer field the channel did not send.
const NotAvailable = "N/A"

type Channel string

const (
	ChannelPush              Channel = "push"
	ChannelLocalNotification Channel = "local_notification"
	ChannelLive              Channel = "live"
	ChannelRestore           Channel = "restore"
)

type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	Line   string `json:"line,omitempty"`
}

func (a Address) String() string {
	if a.Street != "" || a.City != "" {
		parts := make([]string, 0, 2)
		for _, p := range []string{a.Street, a.City} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}
	return a.Line
}

func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.Line == ""
}

// IncomingBookingOffer is a booking proposed to the partner and not yet owned
// by them. TotalAmount is nil when the channel did not carry an amount.
type IncomingBookingOffer struct {
	BookingID     string    `json:"bookingId"`
	ServiceName   string    `json:"serviceName"`
	TotalAmount   *int64    `json:"totalAmount,omitempty"`
	ScheduledDate string    `json:"scheduledDate,omitempty"`
	ScheduledTime string    `json:"scheduledTime,omitempty"`
	Address       Address   `json:"address"`
	Channel       Channel   `json:"channel"`
	ReceivedAt    time.Time `json:"receivedAt"`
}

// SameContent reports whether both offers describe the same booking with the
// same details, ignoring which channel delivered them and when.
func (o IncomingBookingOffer) SameContent(other IncomingBookingOffer) bool {
	if o.BookingID != other.BookingID ||
		o.ServiceName != other.ServiceName ||
		o.ScheduledDate != other.ScheduledDate ||
		o.ScheduledTime != other.ScheduledTime ||
		o.Address != other.Address {
		return false
	}
	switch {
	case o.TotalAmount == nil && other.TotalAmount == nil:
		return true
	case o.TotalAmount == nil || other.TotalAmount == nil:
		return false
	default:
		return *o.TotalAmount == *other.TotalAmount
	}
}

func (o IncomingBookingOffer) Actionable() bool {
	return o.BookingID != ""
}

func (o IncomingBookingOffer) DisplayService() string {
	return orNotAvailable(o.ServiceName)
}

func (o IncomingBookingOffer) DisplayAmount() string {
	if o.TotalAmount == nil {
		return NotAvailable
	}
	return strconv.FormatInt(*o.TotalAmount, 10)
}

func (o IncomingBookingOffer) DisplayAddress() string {
	return orNotAvailable(o.Address.String())
}

func (o IncomingBookingOffer) DisplaySchedule() string {
	s := strings.TrimSpace(o.ScheduledDate + " " + o.ScheduledTime)
	return orNotAvailable(s)
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
