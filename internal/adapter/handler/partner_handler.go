package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
)

type locationUpdater interface {
	Update(loc domain.Location) error
}

// PartnerHandler covers the partner's own state: session, availability,
// app lifecycle and location.
type PartnerHandler struct {
	session      *services.SessionService
	availability *services.AvailabilityService
	connection   *services.ConnectionManager
	location     locationUpdater
	log          *slog.Logger
}

func NewPartnerHandler(
	session *services.SessionService,
	availability *services.AvailabilityService,
	connection *services.ConnectionManager,
	location locationUpdater,
	log *slog.Logger,
) *PartnerHandler {
	return &PartnerHandler{
		session:      session,
		availability: availability,
		connection:   connection,
		location:     location,
		log:          log,
	}
}

func (h *PartnerHandler) Register(r gin.IRouter) {
	r.POST("/session", h.SignIn)
	r.DELETE("/session", h.SignOut)
	r.POST("/push-token", h.RegisterPushToken)

	r.GET("/availability", h.Availability)
	r.PUT("/availability", h.SetAvailability)
	r.POST("/availability/toggle", h.ToggleAvailability)

	r.POST("/lifecycle/foreground", h.Foreground)
	r.POST("/location", h.UpdateLocation)
}

type signInRequest struct {
	Token string `json:"token"`
}

type pushTokenRequest struct {
	PushToken string `json:"pushToken"`
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

func (h *PartnerHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}

	ctx := c.Request.Context()
	if err := h.session.SignIn(ctx, req.Token); err != nil {
		RespondDomainError(c, err)
		return
	}

	connected := true
	if err := h.connection.EnsureConnected(ctx); err != nil {
		connected = false
		h.log.Warn("live channel not connected after sign-in", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"connected": connected})
}

func (h *PartnerHandler) SignOut(c *gin.Context) {
	h.session.SignOut(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *PartnerHandler) RegisterPushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}

	if err := h.session.RegisterPushToken(c.Request.Context(), req.PushToken); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PartnerHandler) Availability(c *gin.Context) {
	partner, ok := h.availability.Current()
	if !ok {
		var err error
		partner, err = h.availability.Refresh(c.Request.Context())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

func (h *PartnerHandler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "isAvailable is required")
		return
	}

	partner, err := h.availability.SetAvailable(c.Request.Context(), *req.IsAvailable)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

func (h *PartnerHandler) ToggleAvailability(c *gin.Context) {
	partner, err := h.availability.Toggle(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner": partner})
}

func (h *PartnerHandler) Foreground(c *gin.Context) {
	if err := h.connection.OnForeground(c.Request.Context()); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *PartnerHandler) UpdateLocation(c *gin.Context) {
	var loc domain.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}

	if err := h.location.Update(loc); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
