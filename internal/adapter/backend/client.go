package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
)

const maxResponseBytes = 1 << 20

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the partner backend REST API. It implements
// ports.PartnerAPI, ports.BookingAPI and ports.PaymentAPI.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource
	log     *slog.Logger

	mu             sync.Mutex
	onUnauthorized func(context.Context)
}

func NewClient(cfg Config, tokens ports.TokenSource, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// OnUnauthorized registers the callback run (in its own goroutine) whenever
// the backend rejects the session.
func (c *Client) OnUnauthorized(fn func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onUnauthorized = fn
}

type partnerEnvelope struct {
	Partner domain.Partner `json:"partner"`
}

type bookingEnvelope struct {
	Booking domain.BookingRecord `json:"booking"`
}

type bookingsEnvelope struct {
	Bookings []domain.BookingRecord `json:"bookings"`
}

type paymentStatusEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    domain.PaymentStatus `json:"data"`
}

type confirmRequest struct {
	PartnerLiveLocation domain.Location `json:"partnerLiveLocation"`
}

func (c *Client) GetPartner(ctx context.Context) (*domain.Partner, error) {
	var out partnerEnvelope
	if err := c.do(ctx, http.MethodGet, "/partners/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.Partner, nil
}

func (c *Client) UpdateAvailability(ctx context.Context, available bool) (*domain.Partner, error) {
	var out partnerEnvelope
	body := map[string]bool{"isAvailable": available}
	if err := c.do(ctx, http.MethodPatch, "/partners/me", body, &out); err != nil {
		return nil, err
	}
	return &out.Partner, nil
}

func (c *Client) UpdatePushToken(ctx context.Context, pushToken string) error {
	body := map[string]string{"pushToken": pushToken}
	return c.do(ctx, http.MethodPost, "/partners/me/update-push-token", body, nil)
}

func (c *Client) ConfirmBooking(ctx context.Context, bookingID string, location domain.Location) error {
	path := fmt.Sprintf("/bookings/%s/confirm", url.PathEscape(bookingID))
	return c.do(ctx, http.MethodPut, path, confirmRequest{PartnerLiveLocation: location}, nil)
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	var out bookingEnvelope
	if err := c.do(ctx, http.MethodGet, bookingPath(bookingID, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

func (c *Client) ListTodayBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	var out bookingsEnvelope
	if err := c.do(ctx, http.MethodGet, "/partners/me/bookings/today", nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

func (c *Client) StartService(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodPost, bookingPath(bookingID, "start-service"), nil, nil)
}

func (c *Client) MarkArrived(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodPost, bookingPath(bookingID, "mark-arrived"), nil, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, bookingID string, otp string) error {
	body := map[string]string{"otp": otp}
	return c.do(ctx, http.MethodPost, bookingPath(bookingID, "verify-otp"), body, nil)
}

func (c *Client) CollectPayment(ctx context.Context, bookingID string, req domain.CollectPaymentRequest) error {
	return c.do(ctx, http.MethodPost, bookingPath(bookingID, "collect-payment"), req, nil)
}

func (c *Client) CreateUPIQR(ctx context.Context, req domain.QRRequest) (*domain.QRCode, error) {
	var out domain.QRCode
	if err := c.do(ctx, http.MethodPost, "/payments/create-upi-qr", req, &out); err != nil {
		return nil, err
	}
	if out.CodeID == "" {
		return nil, fmt.Errorf("create upi qr: %w", domain.ErrUnsupportedPayload)
	}
	return &out, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, codeID string) (*domain.PaymentStatus, error) {
	var out paymentStatusEnvelope
	path := "/payments/status/" + url.PathEscape(codeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, domain.TransientError{Op: "payment status", Err: errors.New(firstNonEmpty(out.Message, "unsuccessful response"))}
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	op := method + " " + path

	token, err := c.tokens.Token(ctx)
	if err != nil {
		if domain.IsUnauthorized(err) {
			c.unauthorized(ctx)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return domain.TransientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.TransientError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug("backend call failed",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		return c.classify(ctx, op, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// classify maps a non-2xx response onto the domain error taxonomy.
func (c *Client) classify(ctx context.Context, op string, status int, body []byte) error {
	msg := serverMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		c.unauthorized(ctx)
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	case status == http.StatusNotFound:
		return domain.NotFoundError{Resource: op, Err: errors.New(firstNonEmpty(msg, "not found"))}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: msg, Err: fmt.Errorf("%s: status %d", op, status)}
	case status == http.StatusConflict || status == http.StatusForbidden || status == http.StatusGone:
		return domain.ConflictError{Resource: "booking", Msg: msg, Err: fmt.Errorf("%s: status %d", op, status)}
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return domain.TransientError{Op: op, Err: fmt.Errorf("status %d: %s", status, firstNonEmpty(msg, http.StatusText(status)))}
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", op, status, firstNonEmpty(msg, http.StatusText(status)))
	}
}

func (c *Client) unauthorized(ctx context.Context) {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()

	if fn != nil {
		go fn(context.WithoutCancel(ctx))
	}
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return firstNonEmpty(payload.Message, payload.Error)
}

func bookingPath(bookingID, action string) string {
	path := "/partners/booking/" + url.PathEscape(bookingID)
	if action != "" {
		path += "/" + action
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
