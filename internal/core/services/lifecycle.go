package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

const settleTimeout = 30 * time.Second

type paymentSession struct {
	qr     domain.QRCode
	req    domain.CollectPaymentRequest
	cancel context.CancelFunc
	done   chan struct{}
}

// BookingTracker drives accepted bookings through
// confirmed → enroute → arrived → in-progress → completed. Every step is
// checked against the last status fetched from the backend, performed on the
// backend, echoed on the live channel and followed by a re-fetch; the local
// copy is never advanced by hand.
type BookingTracker struct {
	bookings ports.BookingAPI
	payments ports.PaymentAPI
	live     ports.LiveChannel
	cache    ports.BookingCacheRepository
	notices  *NoticeBoard
	poller   *PaymentPoller
	log      *slog.Logger

	mu       sync.Mutex
	records  map[string]*domain.BookingRecord
	locks    map[string]*sync.Mutex
	sessions map[string]*paymentSession
	today    []domain.BookingRecord
}

func NewBookingTracker(
	bookings ports.BookingAPI,
	payments ports.PaymentAPI,
	live ports.LiveChannel,
	cache ports.BookingCacheRepository,
	notices *NoticeBoard,
	poller *PaymentPoller,
	log *slog.Logger,
) *BookingTracker {
	return &BookingTracker{
		bookings: bookings,
		payments: payments,
		live:     live,
		cache:    cache,
		notices:  notices,
		poller:   poller,
		log:      log,
		records:  make(map[string]*domain.BookingRecord),
		locks:    make(map[string]*sync.Mutex),
		sessions: make(map[string]*paymentSession),
	}
}

// Get returns the tracked booking, fetching it on first use.
func (t *BookingTracker) Get(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	unlock := t.lockBooking(bookingID)
	defer unlock()

	return t.current(ctx, bookingID)
}

// Lookup is Get for display: when the backend is unreachable the last cached
// copy is returned and stale is true.
func (t *BookingTracker) Lookup(ctx context.Context, bookingID string) (rec *domain.BookingRecord, stale bool, err error) {
	rec, err = t.Get(ctx, bookingID)
	if err == nil || !domain.IsTransient(err) {
		return rec, false, err
	}

	cached, cacheErr := t.cache.GetByID(ctx, bookingID)
	if cacheErr != nil {
		t.log.Debug("no cached copy for offline display",
			slog.String("booking_id", bookingID),
			slog.String("error", cacheErr.Error()),
		)
		return nil, false, err
	}
	return cached, true, nil
}

func (t *BookingTracker) Tracks(bookingID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.records[bookingID]
	return ok
}

func (t *BookingTracker) StartService(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	return t.advance(ctx, bookingID, domain.BookingEnroute, func(ctx context.Context) error {
		return t.bookings.StartService(ctx, bookingID)
	})
}

func (t *BookingTracker) MarkArrived(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	return t.advance(ctx, bookingID, domain.BookingArrived, func(ctx context.Context) error {
		return t.bookings.MarkArrived(ctx, bookingID)
	})
}

// VerifyOTP rejects anything but four digits before touching the network. A
// wrong code is refused by the backend and leaves the booking in arrived.
func (t *BookingTracker) VerifyOTP(ctx context.Context, bookingID, otp string) (*domain.BookingRecord, error) {
	if !validOTP(otp) {
		return nil, domain.ValidationError{Field: "otp", Msg: domain.ErrInvalidOTP.Error(), Err: domain.ErrInvalidOTP}
	}
	return t.advance(ctx, bookingID, domain.BookingInProgress, func(ctx context.Context) error {
		return t.bookings.VerifyOTP(ctx, bookingID, otp)
	})
}

// CollectCash settles the full total as cash.
func (t *BookingTracker) CollectCash(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	_ = t.ClosePayment(bookingID)

	unlock := t.lockBooking(bookingID)
	defer unlock()

	if t.collecting(bookingID) {
		return nil, domain.ErrPaymentInProgress
	}
	rec, err := t.payable(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	req, err := domain.NewCashCollection(rec.Pricing.Total)
	if err != nil {
		return nil, err
	}
	return t.settleLocked(ctx, bookingID, rec, req)
}

// StartOnlineCollection shows a QR for the full total and waits for it in the
// background.
func (t *BookingTracker) StartOnlineCollection(ctx context.Context, bookingID string) (*domain.QRCode, error) {
	return t.startCollection(ctx, bookingID, func(total int64) (domain.CollectPaymentRequest, error) {
		return domain.NewOnlineCollection(total)
	})
}

// StartSplitCollection shows a QR for the online share only; the rest is
// declared as cash once the online share is confirmed.
func (t *BookingTracker) StartSplitCollection(ctx context.Context, bookingID string, onlineAmount int64) (*domain.QRCode, error) {
	return t.startCollection(ctx, bookingID, func(total int64) (domain.CollectPaymentRequest, error) {
		return domain.NewSplitCollection(total, onlineAmount)
	})
}

// PaymentSession returns the QR currently awaiting payment for bookingID.
func (t *BookingTracker) PaymentSession(bookingID string) (*domain.QRCode, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, ok := t.sessions[bookingID]
	if !ok {
		return nil, false
	}
	qr := sess.qr
	return &qr, true
}

// ClosePayment stops waiting for a QR payment. It returns once the poller has
// exited, so no status request is issued afterwards.
func (t *BookingTracker) ClosePayment(bookingID string) error {
	t.mu.Lock()
	sess, ok := t.sessions[bookingID]
	delete(t.sessions, bookingID)
	t.mu.Unlock()

	if !ok {
		return domain.ErrNoPaymentSession
	}
	sess.cancel()
	<-sess.done
	return nil
}

// Close stops every payment poller.
func (t *BookingTracker) Close() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		_ = t.ClosePayment(id)
	}
}

// Resync re-reads the booking from the backend.
func (t *BookingTracker) Resync(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	unlock := t.lockBooking(bookingID)
	defer unlock()

	return t.refreshLocked(ctx, bookingID)
}

func (t *BookingTracker) ResyncAll(ctx context.Context) {
	t.mu.Lock()
	ids := make([]string, 0, len(t.records))
	for id := range t.records {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		if _, err := t.Resync(ctx, id); err != nil {
			t.log.Warn("failed to resync booking", slog.String("booking_id", id), slog.String("error", err.Error()))
		}
	}
}

// HandleCancelled reacts to an external cancellation: payment collection is
// abandoned and the status is re-read rather than assumed.
func (t *BookingTracker) HandleCancelled(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	if err := t.ClosePayment(bookingID); err == nil {
		t.log.Info("payment collection abandoned after cancellation", slog.String("booking_id", bookingID))
	}
	rec, err := t.Resync(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.BookingCancelled || rec.Status == domain.BookingFailed {
		t.notices.Publish(domain.NoticeError, bookingID, "Booking was cancelled", rec.ServiceName)
	}
	return rec, nil
}

func (t *BookingTracker) RefreshToday(ctx context.Context) ([]domain.BookingRecord, error) {
	list, err := t.bookings.ListTodayBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list today's bookings: %w", err)
	}

	for i := range list {
		rec := list[i]
		if err := t.cache.Upsert(ctx, &rec); err != nil {
			t.log.Warn("failed to cache booking", slog.String("booking_id", rec.ID), slog.String("error", err.Error()))
		}
	}

	t.mu.Lock()
	t.today = list
	t.mu.Unlock()

	out := make([]domain.BookingRecord, len(list))
	copy(out, list)
	return out, nil
}

func (t *BookingTracker) Today() []domain.BookingRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.BookingRecord, len(t.today))
	copy(out, t.today)
	return out
}

func (t *BookingTracker) advance(ctx context.Context, bookingID string, to domain.BookingStatus, call func(context.Context) error) (*domain.BookingRecord, error) {
	unlock := t.lockBooking(bookingID)
	defer unlock()

	rec, err := t.current(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTransition(bookingID, rec.Status, to); err != nil {
		metrics.IncBookingTransition(string(to), "rejected")
		return nil, err
	}

	if err := call(ctx); err != nil {
		metrics.IncBookingTransition(string(to), "failed")
		return nil, fmt.Errorf("move booking %s to %s: %w", bookingID, to, err)
	}

	metrics.IncBookingTransition(string(to), "ok")
	t.log.Info("booking status changed",
		slog.String("booking_id", bookingID),
		slog.String("from", string(rec.Status)),
		slog.String("status", string(to)),
	)
	t.emitStatus(ctx, bookingID, to)
	return t.refreshLocked(ctx, bookingID)
}

func (t *BookingTracker) startCollection(
	ctx context.Context,
	bookingID string,
	build func(total int64) (domain.CollectPaymentRequest, error),
) (*domain.QRCode, error) {
	_ = t.ClosePayment(bookingID)

	unlock := t.lockBooking(bookingID)
	defer unlock()

	if t.collecting(bookingID) {
		return nil, domain.ErrPaymentInProgress
	}
	rec, err := t.payable(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	req, err := build(rec.Pricing.Total)
	if err != nil {
		return nil, err
	}

	qr, err := t.payments.CreateUPIQR(ctx, domain.QRRequest{
		Amount:        req.Online(),
		BookingID:     firstNonEmpty(rec.ID, bookingID),
		BookingNumber: rec.BookingNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment qr for booking %s: %w", bookingID, err)
	}
	if qr.Amount == 0 {
		qr.Amount = req.Online()
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	sess := &paymentSession{qr: *qr, req: req, cancel: cancel, done: make(chan struct{})}

	t.mu.Lock()
	t.sessions[bookingID] = sess
	t.mu.Unlock()

	go t.awaitPayment(pollCtx, bookingID, sess)

	t.log.Info("waiting for online payment",
		slog.String("booking_id", bookingID),
		slog.String("mode", string(req.PaymentMode)),
		slog.Int64("online_amount", req.Online()),
	)

	out := *qr
	return &out, nil
}

func (t *BookingTracker) awaitPayment(ctx context.Context, bookingID string, sess *paymentSession) {
	defer close(sess.done)

	status, err := t.poller.Await(ctx, sess.qr.CodeID, func(s domain.PaymentStatus) {
		t.notices.Publish(domain.NoticeInfo, bookingID, "Partial Payment", fmt.Sprintf("%d received online", s.OnlinePaid))
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		t.dropSession(bookingID, sess)
		t.log.Warn("online payment not confirmed", slog.String("booking_id", bookingID), slog.String("error", err.Error()))
		t.notices.Publish(domain.NoticeError, bookingID, "Payment not confirmed", domain.Message(err))
		return
	}

	t.notices.Publish(domain.NoticeSuccess, bookingID, "Payment Received!", fmt.Sprintf("%d paid online", status.TotalPaid))

	// The money has moved; settle even if the screen closes from here on.
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	unlock := t.lockBooking(bookingID)
	defer unlock()
	defer t.dropSession(bookingID, sess)

	rec, err := t.payable(settleCtx, bookingID)
	if err != nil {
		t.log.Warn("booking no longer payable", slog.String("booking_id", bookingID), slog.String("error", err.Error()))
		return
	}
	if _, err := t.settleLocked(settleCtx, bookingID, rec, sess.req); err != nil {
		t.notices.Publish(domain.NoticeError, bookingID, "Could not record payment", domain.Message(err))
	}
}

// settleLocked records the payment and completes the booking. The split is
// validated against the total before the call.
func (t *BookingTracker) settleLocked(ctx context.Context, bookingID string, rec *domain.BookingRecord, req domain.CollectPaymentRequest) (*domain.BookingRecord, error) {
	if err := req.Validate(rec.Pricing.Total); err != nil {
		return nil, err
	}

	if err := t.bookings.CollectPayment(ctx, bookingID, req); err != nil {
		metrics.IncBookingTransition(string(domain.BookingCompleted), "failed")
		return nil, fmt.Errorf("collect payment for booking %s: %w", bookingID, err)
	}

	metrics.IncBookingTransition(string(domain.BookingCompleted), "ok")
	t.log.Info("payment collected",
		slog.String("booking_id", bookingID),
		slog.String("mode", string(req.PaymentMode)),
		slog.Int64("online_amount", req.Online()),
		slog.Int64("cash_amount", req.Cash()),
	)
	t.emitStatus(ctx, bookingID, domain.BookingCompleted)
	return t.refreshLocked(ctx, bookingID)
}

// payable returns the booking if payment may be collected now.
func (t *BookingTracker) payable(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	rec, err := t.current(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if rec.IsPaid() {
		return nil, domain.ErrAlreadyPaid
	}
	if rec.Status != domain.BookingInProgress {
		return nil, domain.TransitionError{BookingID: bookingID, From: rec.Status, To: domain.BookingCompleted}
	}
	return rec, nil
}

func (t *BookingTracker) current(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	t.mu.Lock()
	rec, ok := t.records[bookingID]
	t.mu.Unlock()

	if ok {
		out := *rec
		return &out, nil
	}
	return t.refreshLocked(ctx, bookingID)
}

func (t *BookingTracker) refreshLocked(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	rec, err := t.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		t.mu.Lock()
		delete(t.records, bookingID)
		t.mu.Unlock()
		return nil, fmt.Errorf("fetch booking %s: %w", bookingID, err)
	}
	if rec.ID == "" {
		rec.ID = bookingID
	}
	if err := rec.Pricing.Validate(); err != nil {
		t.log.Warn("backend reported inconsistent pricing",
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
	}
	if err := rec.CheckSettled(); err != nil {
		t.log.Warn("backend reported an unbalanced payment split",
			slog.String("booking_id", bookingID),
			slog.Int64("total", rec.Pricing.Total),
		)
	}

	stored := *rec
	t.mu.Lock()
	t.records[bookingID] = &stored
	t.mu.Unlock()

	if err := t.cache.Upsert(ctx, rec); err != nil {
		t.log.Warn("failed to cache booking", slog.String("booking_id", bookingID), slog.String("error", err.Error()))
	}

	out := *rec
	return &out, nil
}

func (t *BookingTracker) emitStatus(ctx context.Context, bookingID string, status domain.BookingStatus) {
	change := domain.StatusChange{BookingID: bookingID, Status: status}
	if err := t.live.Emit(ctx, domain.EventBookingStatusChange, change); err != nil {
		t.log.Warn("failed to announce status change",
			slog.String("booking_id", bookingID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
	}
}

// collecting reports whether a QR payment is awaited for bookingID. Callers
// hold the booking lock, so a session cannot appear between the check and the
// store.
func (t *BookingTracker) collecting(bookingID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.sessions[bookingID]
	return ok
}

func (t *BookingTracker) dropSession(bookingID string, sess *paymentSession) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sessions[bookingID] == sess {
		delete(t.sessions, bookingID)
	}
}

func (t *BookingTracker) lockBooking(bookingID string) func() {
	t.mu.Lock()
	l, ok := t.locks[bookingID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[bookingID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func validOTP(otp string) bool {
	if len(otp) != 4 {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
