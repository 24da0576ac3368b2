package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveOffer      = errors.New("no active offer for booking")
	ErrDecisionInProgress = errors.New("a decision for this offer is already in progress")
	ErrAlreadyDecided     = errors.New("offer already decided")
)

var (
	ErrIllegalTransition  = errors.New("illegal booking status transition")
	ErrInvalidOTP         = errors.New("otp must be exactly 4 digits")
	ErrInvalidSplit       = errors.New("online amount must be greater than 0 and less than the total")
	ErrPaymentMismatch    = errors.New("online and cash amounts must add up to the total")
	ErrAlreadyPaid        = errors.New("payment already collected for this booking")
	ErrPaymentPollTimeout = errors.New("payment was not confirmed in time")
)

var (
	ErrUnauthorized       = errors.New("session expired or invalid")
	ErrLiveChannelDown    = errors.New("live channel is not connected")
	ErrLocationUnknown    = errors.New("partner location unavailable")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrNoPaymentSession   = errors.New("no payment collection in progress")
	ErrPaymentInProgress  = errors.New("another payment collection for this booking is in progress")
	ErrUnsupportedPayload = errors.New("unsupported payload")
)

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError carries the reason the backend refused an action, e.g. a
// booking already claimed by another partner or a wrong OTP.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// TransientError marks failures worth retrying: timeouts, lost connectivity,
// 5xx from the backend.
type TransientError struct {
	Op  string
	Err error
}

func (e TransientError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: temporary failure", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e TransientError) Unwrap() error { return e.Err }

type TransitionError struct {
	BookingID string
	From      BookingStatus
	To        BookingStatus
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("booking %s: cannot move from %q to %q", e.BookingID, e.From, e.To)
}

func (e TransitionError) Unwrap() error { return ErrIllegalTransition }

// Message returns the text a partner should see for err.
func Message(err error) string {
	var conflict ConflictError
	if errors.As(err, &conflict) && conflict.Msg != "" {
		return conflict.Msg
	}
	var validation ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	switch {
	case IsTransient(err):
		return "Network problem, please try again"
	case errors.Is(err, ErrUnauthorized):
		return "Session expired, please sign in again"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target) || errors.Is(err, ErrBookingNotFound)
}

func IsTransient(err error) bool {
	var target TransientError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
