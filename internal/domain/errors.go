package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenUsed       = errors.New("token already used")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionNotFound = errors.New("session not found")
	ErrContentNotFound = errors.New("content not found")
	ErrNoSmartlink     = errors.New("no smartlink configured")

	ErrInvalidCode         = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("self referral")
	ErrAlreadyReferred     = errors.New("already referred")
	ErrAlreadyClaimed      = errors.New("code already claimed")
	ErrDeviceLimitExceeded = errors.New("device claim limit exceeded")

	ErrInsufficientBalance = errors.New("insufficient balance")
)

// CooldownError reports how long the subject has to wait before the next
// start-attempt. A temporal policy condition, not an abuse signal.
type CooldownError struct {
	WaitSeconds int64
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: retry in %ds", e.WaitSeconds)
}

// TooFastError reports how many seconds of watching remain before the token
// may be completed.
type TooFastError struct {
	RemainingSeconds int64
}

func (e *TooFastError) Error() string {
	return fmt.Sprintf("watched too fast: %ds remaining", e.RemainingSeconds)
}
