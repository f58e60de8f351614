package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UnlockMetrics holds every metric of the unlock flow.
type UnlockMetrics struct {
	// Ad attempts
	AttemptsStartedTotal   prometheus.CounterVec
	AttemptsCompletedTotal prometheus.CounterVec
	AttemptFailuresTotal   prometheus.CounterVec
	WatchDuration          prometheus.HistogramVec

	// Unlocks
	UnlocksTotal prometheus.CounterVec

	// Referrals
	ReferralClaimsTotal      prometheus.CounterVec
	PendingRewardsRealized   prometheus.Counter
	PendingRewardsBacklog    prometheus.Gauge

	// Ledger
	LedgerSpendFailuresTotal prometheus.CounterVec

	// Smartlinks
	ActiveSmartlinks prometheus.Gauge
}

func NewUnlockMetrics() *UnlockMetrics {
	return &UnlockMetrics{
		AttemptsStartedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ad_attempts_started_total",
				Help: "Ad attempts issued, by content",
			},
			[]string{"content_id"},
		),

		AttemptsCompletedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ad_attempts_completed_total",
				Help: "Ad attempts completed successfully, by content",
			},
			[]string{"content_id"},
		),

		AttemptFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ad_attempt_failures_total",
				Help: "Ad attempt rejections by reason (cooldown, too_fast, token_expired, token_used, invalid_token, no_smartlink)",
			},
			[]string{"reason"},
		),

		WatchDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ad_watch_duration_seconds",
				Help:    "Server-observed time between attempt start and completion",
				Buckets: prometheus.LinearBuckets(10, 10, 12), // 10s..120s
			},
			[]string{"content_id"},
		),

		UnlocksTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_unlocks_total",
				Help: "Sessions that reached their required ad count, by content",
			},
			[]string{"content_id"},
		),

		ReferralClaimsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "referral_claims_total",
				Help: "Referral claims by outcome (accepted, invalid_code, self_referral, already_referred, already_claimed, device_limit_exceeded)",
			},
			[]string{"outcome"},
		),

		PendingRewardsRealized: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pending_rewards_realized_total",
				Help: "Pending referrer rewards credited to the ledger",
			},
		),

		PendingRewardsBacklog: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pending_rewards_backlog",
				Help: "Unrealized pending rewards currently queued",
			},
		),

		LedgerSpendFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_spend_failures_total",
				Help: "Spend operations rejected for insufficient balance, by operation",
			},
			[]string{"operation"},
		),

		ActiveSmartlinks: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartlinks_active",
				Help: "Smartlinks currently active in the pool",
			},
		),
	}
}
