package services

import (
	"sync"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

type OfferSnapshot struct {
	Offer   *domain.IncomingBookingOffer `json:"offer"`
	Visible bool                         `json:"visible"`
	Seq     uint64                       `json:"seq"`
}

// decidedMemory bounds how many retired booking IDs the store remembers.
const decidedMemory = 64

// IncomingOfferStore holds at most one active offer. Writes are last-write-wins:
// every effective write bumps Seq, so observers can tell a replacement from a
// repeat. Re-applying the offer that is already active changes nothing, and
// neither does re-offering a booking that was already decided here.
type IncomingOfferStore struct {
	mu       sync.Mutex
	offer    *domain.IncomingBookingOffer
	visible  bool
	seq      uint64
	deciding string
	decided  map[string]struct{}
	order    []string
	updates  broadcaster[OfferSnapshot]
}

func NewIncomingOfferStore() *IncomingOfferStore {
	return &IncomingOfferStore{decided: make(map[string]struct{})}
}

// Set makes offer the active one and reports whether anything changed.
func (s *IncomingOfferStore) Set(offer domain.IncomingBookingOffer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visible && s.offer != nil && s.offer.SameContent(offer) {
		return false
	}
	if _, done := s.decided[offer.BookingID]; done && offer.Actionable() {
		return false
	}

	o := offer
	s.offer = &o
	s.visible = true
	s.seq++
	s.updates.publish(s.snapshotLocked())
	return true
}

// Clear drops the active offer. Clearing an empty store is a no-op.
func (s *IncomingOfferStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearLocked()
}

// ClearIf drops the active offer only when it is for bookingID, so a newer
// offer that replaced it in the meantime survives.
func (s *IncomingOfferStore) ClearIf(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.offer == nil || s.offer.BookingID != bookingID {
		return false
	}
	return s.clearLocked()
}

// Retire is ClearIf for an offer that reached a final decision. The booking
// is remembered, so a copy still in flight on a slower channel cannot bring it
// back.
func (s *IncomingOfferStore) Retire(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rememberLocked(bookingID)
	if s.offer == nil || s.offer.BookingID != bookingID {
		return false
	}
	return s.clearLocked()
}

func (s *IncomingOfferStore) Decided(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.decided[bookingID]
	return ok
}

func (s *IncomingOfferStore) rememberLocked(bookingID string) {
	if bookingID == "" {
		return
	}
	if _, ok := s.decided[bookingID]; ok {
		return
	}
	if len(s.order) == decidedMemory {
		delete(s.decided, s.order[0])
		s.order = s.order[1:]
	}
	s.decided[bookingID] = struct{}{}
	s.order = append(s.order, bookingID)
}

// ClearIfIdle is ClearIf that also leaves the offer alone while a decision on
// it is in flight.
func (s *IncomingOfferStore) ClearIfIdle(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.offer == nil || s.offer.BookingID != bookingID || s.deciding == bookingID {
		return false
	}
	return s.clearLocked()
}

func (s *IncomingOfferStore) clearLocked() bool {
	if s.offer == nil && !s.visible {
		return false
	}
	s.offer = nil
	s.visible = false
	s.deciding = ""
	s.seq++
	s.updates.publish(s.snapshotLocked())
	return true
}

// BeginDecision claims the active offer for an accept or decline. Only one
// decision per offer can be in flight.
func (s *IncomingOfferStore) BeginDecision(bookingID string) (domain.IncomingBookingOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bookingID == "" || !s.visible || s.offer == nil || s.offer.BookingID != bookingID {
		return domain.IncomingBookingOffer{}, domain.ErrNoActiveOffer
	}
	if s.deciding == bookingID {
		return domain.IncomingBookingOffer{}, domain.ErrDecisionInProgress
	}
	s.deciding = bookingID
	return *s.offer, nil
}

func (s *IncomingOfferStore) EndDecision(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deciding == bookingID {
		s.deciding = ""
	}
}

func (s *IncomingOfferStore) Active() (domain.IncomingBookingOffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.visible || s.offer == nil {
		return domain.IncomingBookingOffer{}, false
	}
	return *s.offer, true
}

func (s *IncomingOfferStore) Snapshot() OfferSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Subscribe streams a snapshot after every effective write. The first value is
// the current state.
func (s *IncomingOfferStore) Subscribe(buffer int) (<-chan OfferSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updates.subscribe(buffer, s.snapshotLocked())
}

func (s *IncomingOfferStore) snapshotLocked() OfferSnapshot {
	snap := OfferSnapshot{Visible: s.visible, Seq: s.seq}
	if s.offer != nil {
		o := *s.offer
		snap.Offer = &o
	}
	return snap
}
