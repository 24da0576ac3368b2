package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", domain.Message(err))
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", domain.Message(err))
	case errors.Is(err, domain.ErrNoActiveOffer), errors.Is(err, domain.ErrNoPaymentSession):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", domain.Message(err))
	case errors.Is(err, domain.ErrIllegalTransition):
		respondError(c, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, domain.ErrDecisionInProgress),
		errors.Is(err, domain.ErrAlreadyDecided),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrPaymentInProgress):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", domain.Message(err))
	case errors.Is(err, domain.ErrPaymentPollTimeout), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "timeout", domain.Message(err))
	case domain.IsTransient(err),
		errors.Is(err, domain.ErrLiveChannelDown),
		errors.Is(err, domain.ErrLocationUnknown):
		respondError(c, http.StatusServiceUnavailable, "unavailable", domain.Message(err))
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
