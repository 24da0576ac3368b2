package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
)

// IncomingHandler serves the incoming-offer surface: the current offer, the
// partner's decision on it and the live event stream the UI renders from.
type IncomingHandler struct {
	store       *services.IncomingOfferStore
	coordinator *services.ActionCoordinator
	notices     *services.NoticeBoard
}

func NewIncomingHandler(store *services.IncomingOfferStore, coordinator *services.ActionCoordinator, notices *services.NoticeBoard) *IncomingHandler {
	return &IncomingHandler{store: store, coordinator: coordinator, notices: notices}
}

func (h *IncomingHandler) Register(r gin.IRouter) {
	r.GET("/incoming", h.Current)
	r.POST("/incoming/:id/accept", h.Accept)
	r.POST("/incoming/:id/decline", h.Decline)
	r.GET("/notices", h.Notices)
	r.GET("/events", h.Events)
}

func (h *IncomingHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

func (h *IncomingHandler) Accept(c *gin.Context) {
	bookingID := c.Param("id")
	if err := h.coordinator.Accept(c.Request.Context(), bookingID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "decision": services.DecisionAccepted})
}

func (h *IncomingHandler) Decline(c *gin.Context) {
	bookingID := c.Param("id")
	if err := h.coordinator.Decline(c.Request.Context(), bookingID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "decision": services.DecisionDeclined})
}

func (h *IncomingHandler) Notices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": h.notices.Recent()})
}

// Events streams offer snapshots and notices as server-sent events. The first
// "offer" event is the current snapshot.
func (h *IncomingHandler) Events(c *gin.Context) {
	offers, stopOffers := h.store.Subscribe(8)
	defer stopOffers()
	notices, stopNotices := h.notices.Subscribe(16)
	defer stopNotices()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-offers:
			if !ok {
				return false
			}
			c.SSEvent("offer", snap)
			return true
		case notice, ok := <-notices:
			if !ok {
				return false
			}
			c.SSEvent("notice", notice)
			return true
		}
	})
}
