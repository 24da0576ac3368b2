package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeOffer turns a raw new-booking payload from any channel into an
// IncomingBookingOffer. Missing or mistyped fields are left empty; only input
// that is not a JSON object is rejected.
func NormalizeOffer(raw []byte, channel Channel, receivedAt time.Time) (IncomingBookingOffer, error) {
	fields, err := DecodePayload(raw)
	if err != nil {
		return IncomingBookingOffer{}, ValidationError{Field: "payload", Msg: "offer payload must be a JSON object", Err: err}
	}
	return NormalizeOfferFields(fields, channel, receivedAt), nil
}

// NormalizeOfferFields accepts both field spellings used by the backend
// (service/serviceName, total/amount) and an address that is either a string
// or a {street, city} object. Push data messages may wrap the booking in a
// "payload" field holding a JSON string.
func NormalizeOfferFields(fields map[string]any, channel Channel, receivedAt time.Time) IncomingBookingOffer {
	fields = unwrapPayload(fields)

	return IncomingBookingOffer{
		BookingID:     firstString(fields, "bookingId"),
		ServiceName:   firstString(fields, "service", "serviceName"),
		TotalAmount:   firstAmount(fields, "total", "amount"),
		ScheduledDate: firstString(fields, "scheduledDate"),
		ScheduledTime: firstString(fields, "scheduledTime"),
		Address:       parseAddress(fields["address"]),
		Channel:       channel,
		ReceivedAt:    receivedAt,
	}
}

// DecodePayload decodes a JSON object keeping numbers as json.Number.
func DecodePayload(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: null", ErrUnsupportedPayload)
	}
	return fields, nil
}

func unwrapPayload(fields map[string]any) map[string]any {
	switch inner := fields["payload"].(type) {
	case string:
		if strings.TrimSpace(inner) == "" {
			return fields
		}
		decoded, err := DecodePayload([]byte(inner))
		if err != nil {
			return fields
		}
		return decoded
	case map[string]any:
		return inner
	default:
		return fields
	}
}

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstAmount returns the first non-zero amount among keys; a zero total
// falls through to amount.
func firstAmount(fields map[string]any, keys ...string) *int64 {
	var zero *int64
	for _, key := range keys {
		amount, ok := parseAmount(fields[key])
		if !ok {
			continue
		}
		if amount != 0 {
			return &amount
		}
		if zero == nil {
			zero = &amount
		}
	}
	return zero
}

func parseAmount(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(math.Round(f)), true
		}
	case float64:
		return int64(math.Round(n)), true
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(math.Round(f)), true
		}
	}
	return 0, false
}

func parseAddress(v any) Address {
	switch a := v.(type) {
	case string:
		s := strings.TrimSpace(a)
		if strings.HasPrefix(s, "{") {
			if obj, err := DecodePayload([]byte(s)); err == nil {
				return parseAddress(obj)
			}
		}
		return Address{Line: s}
	case map[string]any:
		return Address{
			Street: firstString(a, "street"),
			City:   firstString(a, "city"),
		}
	default:
		return Address{}
	}
}
