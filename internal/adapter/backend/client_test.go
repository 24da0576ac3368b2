package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/adapter/backend"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) ports.TokenSource {
	return ports.TokenSourceFunc(func(context.Context) (string, error) { return token, nil })
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.NewClient(backend.Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, staticToken("jwt-1"), logging.Discard())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_ConfirmBookingSendsLocation(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotAuth   string
		gotReqID  string
		gotBody   map[string]any
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := client.ConfirmBooking(context.Background(), "B1", domain.Location{Latitude: 18.5, Longitude: 73.8})

	require.NoError(t, err)
	assert.Equal(t, "/bookings/B1/confirm", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Bearer jwt-1", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, map[string]any{"latitude": 18.5, "longitude": 73.8}, gotBody["partnerLiveLocation"])
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "conflict carries server message",
			status: http.StatusConflict,
			body:   map[string]string{"message": "Booking already accepted by another partner"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsConflict(err))
				assert.Equal(t, "Booking already accepted by another partner", domain.Message(err))
			},
		},
		{
			name:   "gone without message",
			status: http.StatusGone,
			body:   map[string]string{},
			check: func(t *testing.T, err error) {
				var conflict domain.ConflictError
				require.ErrorAs(t, err, &conflict)
				assert.Empty(t, conflict.Msg)
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   map[string]string{"error": "no such booking"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsNotFound(err))
			},
		},
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body:   map[string]string{"message": "Invalid OTP"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, "Invalid OTP", domain.Message(err))
			},
		},
		{
			name:   "server error is transient",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsTransient(err))
			},
		},
		{
			name:   "rate limited is transient",
			status: http.StatusTooManyRequests,
			body:   map[string]string{},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsTransient(err))
			},
		},
		{
			name:   "other statuses are plain errors",
			status: http.StatusTeapot,
			body:   map[string]string{},
			check: func(t *testing.T, err error) {
				assert.False(t, domain.IsTransient(err))
				assert.False(t, domain.IsConflict(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			err := client.StartService(context.Background(), "B1")

			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_UnauthorizedNotifiesAsync(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	})

	called := make(chan struct{}, 1)
	client.OnUnauthorized(func(ctx context.Context) {
		assert.NoError(t, ctx.Err())
		called <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := client.GetPartner(ctx)
	cancel()

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("unauthorized callback not invoked")
	}
}

func TestClient_MissingTokenSkipsRequest(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	tokens := ports.TokenSourceFunc(func(context.Context) (string, error) { return "", domain.ErrUnauthorized })
	client := backend.NewClient(backend.Config{BaseURL: srv.URL}, tokens, logging.Discard())

	called := make(chan struct{}, 1)
	client.OnUnauthorized(func(context.Context) { called <- struct{}{} })

	err := client.MarkArrived(context.Background(), "B1")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, hits)
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("unauthorized callback not invoked")
	}
}

func TestClient_Envelopes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/partners/me":
			if r.Method == http.MethodPatch {
				var body map[string]bool
				_ = json.NewDecoder(r.Body).Decode(&body)
				writeJSON(w, http.StatusOK, map[string]any{"partner": map[string]any{"_id": "P1", "isAvailable": body["isAvailable"]}})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"partner": map[string]any{"_id": "P1", "name": "Asha", "isAvailable": false}})
		case "/partners/booking/B1":
			writeJSON(w, http.StatusOK, map[string]any{"booking": map[string]any{"_id": "B1", "status": "confirmed"}})
		case "/partners/me/bookings/today":
			writeJSON(w, http.StatusOK, map[string]any{"bookings": []map[string]any{{"_id": "B1"}, {"_id": "B2"}}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	partner, err := client.GetPartner(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", partner.Name)

	partner, err = client.UpdateAvailability(ctx, true)
	require.NoError(t, err)
	assert.True(t, partner.IsAvailable)

	rec, err := client.GetBooking(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, rec.Status)

	list, err := client.ListTodayBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClient_Payments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payments/create-upi-qr":
			var req domain.QRRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.BookingID == "B-empty" {
				writeJSON(w, http.StatusOK, map[string]any{})
				return
			}
			writeJSON(w, http.StatusOK, domain.QRCode{ImageURL: "https://qr/1.png", CodeID: "QR1", Amount: req.Amount})
		case "/payments/status/QR1":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"status": "partial", "totalPaid": 200}})
		case "/payments/status/QR2":
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "gateway busy"})
		}
	})
	ctx := context.Background()

	qr, err := client.CreateUPIQR(ctx, domain.QRRequest{Amount: 499, BookingID: "B1", BookingNumber: "BK-1"})
	require.NoError(t, err)
	assert.Equal(t, "QR1", qr.CodeID)
	assert.Equal(t, int64(499), qr.Amount)

	_, err = client.CreateUPIQR(ctx, domain.QRRequest{Amount: 499, BookingID: "B-empty"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedPayload)

	status, err := client.GetPaymentStatus(ctx, "QR1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartial, status.Status)
	assert.Equal(t, int64(200), status.TotalPaid)

	_, err = client.GetPaymentStatus(ctx, "QR2")
	assert.True(t, domain.IsTransient(err))
}

func TestClient_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.UpdatePushToken(ctx, "fcm")

	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, domain.IsTransient(err))
}
