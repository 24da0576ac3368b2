package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
)

type BookingHandler struct {
	svc *services.BookingTracker
}

func NewBookingHandler(svc *services.BookingTracker) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Register(r gin.IRouter) {
	bookings := r.Group("/bookings")
	bookings.GET("/today", h.Today)
	bookings.GET("/:id", h.GetBooking)
	bookings.POST("/:id/start-service", h.StartService)
	bookings.POST("/:id/mark-arrived", h.MarkArrived)
	bookings.POST("/:id/verify-otp", h.VerifyOTP)

	payments := bookings.Group("/:id/payments")
	payments.POST("/cash", h.CollectCash)
	payments.POST("/online", h.CollectOnline)
	payments.POST("/split", h.CollectSplit)
	payments.GET("/session", h.PaymentSession)
	payments.DELETE("/session", h.ClosePayment)
}

type verifyOTPRequest struct {
	OTP string `json:"otp"`
}

type splitRequest struct {
	OnlineAmount *int64 `json:"onlineAmount"`
}

func (h *BookingHandler) Today(c *gin.Context) {
	list, err := h.svc.RefreshToday(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	rec, stale, err := h.svc.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": rec, "stale": stale})
}

func (h *BookingHandler) StartService(c *gin.Context) {
	rec, err := h.svc.StartService(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": rec})
}

func (h *BookingHandler) MarkArrived(c *gin.Context) {
	rec, err := h.svc.MarkArrived(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": rec})
}

func (h *BookingHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}

	rec, err := h.svc.VerifyOTP(c.Request.Context(), c.Param("id"), req.OTP)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": rec})
}

func (h *BookingHandler) CollectCash(c *gin.Context) {
	rec, err := h.svc.CollectCash(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": rec})
}

func (h *BookingHandler) CollectOnline(c *gin.Context) {
	qr, err := h.svc.StartOnlineCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"qr": qr})
}

func (h *BookingHandler) CollectSplit(c *gin.Context) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OnlineAmount == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "onlineAmount is required")
		return
	}

	qr, err := h.svc.StartSplitCollection(c.Request.Context(), c.Param("id"), *req.OnlineAmount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"qr": qr})
}

func (h *BookingHandler) PaymentSession(c *gin.Context) {
	qr, ok := h.svc.PaymentSession(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", "no payment collection in progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr": qr})
}

func (h *BookingHandler) ClosePayment(c *gin.Context) {
	if err := h.svc.ClosePayment(c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
