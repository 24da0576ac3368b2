package push

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

type offerSubmitter interface {
	Submit(ctx context.Context, offer domain.IncomingBookingOffer) error
}

// Handler receives push data messages relayed by the push gateway. Only
// messages typed new_booking carry offers; anything else is acknowledged and
// dropped.
type Handler struct {
	intake offerSubmitter
	now    func() time.Time
	log    *slog.Logger
}

func NewHandler(intake offerSubmitter, log *slog.Logger) *Handler {
	return &Handler{intake: intake, now: time.Now, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/push/messages", h.Receive)
}

func (h *Handler) Receive(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	fields, err := domain.DecodePayload(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	if data, ok := fields["data"].(map[string]any); ok {
		fields = data
	}

	if kind, _ := fields["type"].(string); kind != domain.PushTypeNewBooking {
		h.log.Debug("ignoring push message", slog.String("type", kind))
		c.Status(http.StatusNoContent)
		return
	}

	offer := domain.NormalizeOfferFields(fields, domain.ChannelPush, h.now())
	if offer.BookingID == "" {
		h.log.Warn("push offer without booking id")
	}

	if err := h.intake.Submit(c.Request.Context(), offer); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"bookingId": offer.BookingID})
}
