package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/response"
	"github.com/lumora/lumora-unlock-service/internal/domain"
)

// writeDomainError translates domain failures to HTTP statuses. Invalid and
// already-used tokens share one generic body so callers cannot distinguish
// guessing from replaying.
func writeDomainError(c *gin.Context, err error) {
	var cooldownErr *domain.CooldownError
	if errors.As(err, &cooldownErr) {
		c.JSON(http.StatusTooManyRequests, response.ErrorResponse{
			Error:       "cooldown",
			WaitSeconds: cooldownErr.WaitSeconds,
		})
		return
	}

	var tooFastErr *domain.TooFastError
	if errors.As(err, &tooFastErr) {
		c.JSON(http.StatusTooEarly, response.ErrorResponse{
			Error:            "too_fast",
			RemainingSeconds: tooFastErr.RemainingSeconds,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenUsed):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: "attempt_rejected"})
	case errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusGone, response.ErrorResponse{Error: "token_expired"})
	case errors.Is(err, domain.ErrContentNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "content_not_found"})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "session_not_found"})
	case errors.Is(err, domain.ErrNoSmartlink):
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "no_smartlink"})
	case errors.Is(err, domain.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: "insufficient_balance"})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
	}
}
