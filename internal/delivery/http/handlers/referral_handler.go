package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/request"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/response"
	"github.com/lumora/lumora-unlock-service/internal/usecase"
	referraldto "github.com/lumora/lumora-unlock-service/internal/usecase/dto/referral"
	"github.com/lumora/lumora-unlock-service/pkg/fingerprint"
)

type ReferralHandler struct {
	referralUsecase usecase.ReferralUsecase
}

func NewReferralHandler(referralUsecase usecase.ReferralUsecase) *ReferralHandler {
	return &ReferralHandler{referralUsecase: referralUsecase}
}

// Claim always answers 200 with accepted true/false. The rejection reason is
// never echoed back; it goes to the audit trail only.
func (h *ReferralHandler) Claim(c *gin.Context) {
	var req request.ClaimReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	output, err := h.referralUsecase.ProcessIncoming(c.Request.Context(), &referraldto.ClaimInput{
		Code:             req.Code,
		SubjectSessionID: req.SubjectSessionID,
		Signals: fingerprint.Signals{
			UserAgent:        req.Signals.UserAgent,
			Language:         req.Signals.Language,
			Timezone:         req.Signals.Timezone,
			ScreenResolution: req.Signals.ScreenResolution,
			Platform:         req.Signals.Platform,
		},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.ClaimReferralResponse{
		Accepted:     output.Accepted,
		WelcomeBonus: output.WelcomeBonus,
	})
}

func (h *ReferralHandler) GetLink(c *gin.Context) {
	subjectID := c.Query("subjectId")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "subjectId is required"})
		return
	}

	code, link, err := h.referralUsecase.GetReferralLink(c.Request.Context(), subjectID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.ReferralLinkResponse{Code: code, URL: link})
}

func (h *ReferralHandler) Realize(c *gin.Context) {
	var req request.RealizeRewardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	realized, err := h.referralUsecase.RealizePendingRewards(c.Request.Context(), req.SubjectSessionID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.RealizeRewardsResponse{Realized: realized})
}
