package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/handlers"
	"github.com/lumora/lumora-unlock-service/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Attempt   *handlers.AttemptHandler
	Smartlink *handlers.SmartlinkHandler
	Referral  *handlers.ReferralHandler
	Rewards   *handlers.RewardsHandler
}

// NewRouter wires every route of the unlock API onto one gin engine.
func NewRouter(h Handlers, log *logrus.Logger, env string) *gin.Engine {
	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")
	{
		api.POST("/attempts/start", h.Attempt.StartAttempt)
		api.POST("/attempts/complete", h.Attempt.CompleteAttempt)
		api.GET("/sessions", h.Attempt.GetSession)

		api.GET("/smartlinks", h.Smartlink.ListActive)

		api.POST("/referrals/claim", h.Referral.Claim)
		api.GET("/referrals/link", h.Referral.GetLink)
		api.POST("/referrals/realize", h.Referral.Realize)

		api.GET("/rewards/:subjectId", h.Rewards.GetBalance)
		api.GET("/rewards/:subjectId/history", h.Rewards.GetHistory)
		api.POST("/rewards/spend", h.Rewards.Spend)
		api.POST("/rewards/spend-card", h.Rewards.SpendForUnlockCard)
		api.POST("/rewards/priority", h.Rewards.ActivatePriority)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "unlock-service"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
