package domain

import "time"

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short message surfaced to the partner.
type Notice struct {
	ID        string      `json:"id"`
	Level     NoticeLevel `json:"level"`
	Title     string      `json:"title"`
	Detail    string      `json:"detail,omitempty"`
	BookingID string      `json:"bookingId,omitempty"`
	At        time.Time   `json:"at"`
}
