package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/config"
	"github.com/lumora/lumora-unlock-service/internal/domain"
	publisher "github.com/lumora/lumora-unlock-service/internal/infrastructure/kafka"
	auditlogger "github.com/lumora/lumora-unlock-service/internal/infrastructure/logger"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/metrics"
	referraldto "github.com/lumora/lumora-unlock-service/internal/usecase/dto/referral"
	"github.com/lumora/lumora-unlock-service/pkg/fingerprint"
	"github.com/lumora/lumora-unlock-service/pkg/refcode"
)

type ReferralUsecase interface {
	GetReferralLink(ctx context.Context, subjectSessionID string) (code, link string, err error)
	ProcessIncoming(ctx context.Context, input *referraldto.ClaimInput) (*referraldto.ClaimOutput, error)
	RealizePendingRewards(ctx context.Context, referrerSubjectID string) (int, error)
}

// AbusePublisher is the slice of the event publisher the referral engine uses.
type AbusePublisher interface {
	PublishReferralAbuse(event publisher.ReferralAbuseEvent) error
}

// DefaultReferralUsecase validates incoming referral codes, records accepted
// claims and defers the referrer's reward until that referrer is next seen.
// Every rejection resolves to an enumerated reason; the requester only ever
// receives a generic refusal while the reason goes to the audit trail.
type DefaultReferralUsecase struct {
	Codec       *refcode.Codec
	FraudRepo   domain.FraudProfileRepository
	PendingRepo domain.PendingRewardRepository
	Ledger      LedgerUsecase
	AuditLog    auditlogger.ReferralAuditLogger
	Publisher   AbusePublisher
	Metrics     *metrics.UnlockMetrics
	Cfg         config.Referral

	// Ceiling the realized ads reduction is clamped to, from policy config.
	MaxAdsReduction int32

	now func() time.Time
}

func NewDefaultReferralUsecase(
	codec *refcode.Codec,
	fraudRepo domain.FraudProfileRepository,
	pendingRepo domain.PendingRewardRepository,
	ledgerUsecase LedgerUsecase,
	auditLog auditlogger.ReferralAuditLogger,
	abusePublisher AbusePublisher,
	unlockMetrics *metrics.UnlockMetrics,
	cfg config.Referral,
	maxAdsReduction int32) *DefaultReferralUsecase {

	return &DefaultReferralUsecase{
		Codec:           codec,
		FraudRepo:       fraudRepo,
		PendingRepo:     pendingRepo,
		Ledger:          ledgerUsecase,
		AuditLog:        auditLog,
		Publisher:       abusePublisher,
		Metrics:         unlockMetrics,
		Cfg:             cfg,
		MaxAdsReduction: maxAdsReduction,
		now:             time.Now,
	}
}

// WithClock overrides the clock. Tests only.
func (uc *DefaultReferralUsecase) WithClock(now func() time.Time) *DefaultReferralUsecase {
	uc.now = now
	return uc
}

func (uc *DefaultReferralUsecase) GetReferralLink(ctx context.Context, subjectSessionID string) (string, string, error) {
	if subjectSessionID == "" {
		return "", "", domain.ErrSessionNotFound
	}
	code := uc.Codec.Issue(subjectSessionID)
	link := fmt.Sprintf("%s?ref=%s", uc.Cfg.LinkBaseURL, url.QueryEscape(code))
	return code, link, nil
}

// ProcessIncoming runs the ordered claim checks. The first failed check wins;
// later checks are not evaluated. Validation failures are outcomes, not
// errors: the returned error is reserved for infrastructure faults.
func (uc *DefaultReferralUsecase) ProcessIncoming(ctx context.Context, input *referraldto.ClaimInput) (*referraldto.ClaimOutput, error) {
	fp := fingerprint.Derive(input.Signals)

	referrerID, _, err := uc.Codec.Validate(input.Code)
	if err != nil {
		if errors.Is(err, refcode.ErrMalformed) || errors.Is(err, refcode.ErrBadSignature) || errors.Is(err, refcode.ErrCodeTooOld) {
			return uc.reject(ctx, input, fp, referraldto.ReasonInvalidCode), nil
		}
		return nil, err
	}

	if referrerID == input.SubjectSessionID {
		return uc.reject(ctx, input, fp, referraldto.ReasonSelfReferral), nil
	}

	profile, err := uc.FraudRepo.GetOrCreateProfile(ctx, fp, input.SubjectSessionID)
	if err != nil {
		return nil, err
	}

	if profile.ReferredBy != "" {
		return uc.reject(ctx, input, fp, referraldto.ReasonAlreadyReferred), nil
	}
	if profile.HasClaimed(input.Code) {
		return uc.reject(ctx, input, fp, referraldto.ReasonAlreadyClaimed), nil
	}

	claimed, err := uc.FraudRepo.CountClaimedByFingerprint(ctx, fp)
	if err != nil {
		return nil, err
	}
	if claimed >= int64(uc.Cfg.DeviceClaimCeiling) {
		return uc.reject(ctx, input, fp, referraldto.ReasonDeviceLimitExceeded), nil
	}

	if err := uc.FraudRepo.RecordClaim(ctx, fp, input.Code, referrerID); err != nil {
		return nil, err
	}

	if _, err := uc.Ledger.Earn(ctx, input.SubjectSessionID, uc.Cfg.WelcomeBonusCoins, 0, 0, domain.TxReferralWelcome, ""); err != nil {
		return nil, err
	}

	// The referrer is rewarded lazily: the reward sits in the pending queue
	// until the referrer's next visit so crediting never depends on the
	// referrer being online now.
	if err := uc.PendingRepo.Enqueue(ctx, &domain.PendingReward{
		ReferrerSubjectID:   referrerID,
		ReferredSessionID:   input.SubjectSessionID,
		Coins:               uc.Cfg.ReferrerRewardCoins,
		UnlockCards:         uc.Cfg.ReferrerRewardCards,
		AdsReductionPercent: uc.Cfg.ReferrerRewardAdsCut,
		CreatedAt:           uc.now(),
	}); err != nil {
		return nil, err
	}

	uc.Metrics.ReferralClaimsTotal.WithLabelValues(referraldto.ReasonAccepted).Inc()

	return &referraldto.ClaimOutput{
		Accepted:     true,
		Reason:       referraldto.ReasonAccepted,
		WelcomeBonus: uc.Cfg.WelcomeBonusCoins,
	}, nil
}

// RealizePendingRewards credits every queued reward whose referred session
// has shown enough real activity. Ineligible rewards stay queued and are
// retried on the referrer's next visit. Returns the number credited.
func (uc *DefaultReferralUsecase) RealizePendingRewards(ctx context.Context, referrerSubjectID string) (int, error) {
	pending, err := uc.PendingRepo.ListUnrealized(ctx, referrerSubjectID)
	if err != nil {
		return 0, err
	}

	realizedCount := 0
	for _, reward := range pending {
		eligible, err := uc.referredIsActive(ctx, reward.ReferredSessionID)
		if err != nil {
			slog.Error("failed to check referred session activity",
				"session_id", reward.ReferredSessionID, "error", err.Error())
			continue
		}
		if !eligible {
			continue
		}

		won, err := uc.PendingRepo.Realize(ctx, reward, uc.now(), uc.MaxAdsReduction)
		if err != nil {
			slog.Error("failed to realize pending reward",
				"reward_id", reward.ID, "error", err.Error())
			continue
		}
		if won {
			realizedCount++
			uc.Metrics.PendingRewardsRealized.Inc()
		}
	}

	return realizedCount, nil
}

// referredIsActive gates reward realization on the referred session looking
// like a real visitor rather than a throwaway signup.
func (uc *DefaultReferralUsecase) referredIsActive(ctx context.Context, sessionID string) (bool, error) {
	profile, err := uc.FraudRepo.GetProfileBySession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		return false, nil
	}
	return profile.TotalTimeSpentSeconds >= uc.Cfg.MinTimeSpentSeconds &&
		profile.UnlockCount >= uc.Cfg.MinUnlocks, nil
}

func (uc *DefaultReferralUsecase) reject(ctx context.Context, input *referraldto.ClaimInput, fp, reason string) *referraldto.ClaimOutput {
	occurredAt := uc.now()

	uc.Metrics.ReferralClaimsTotal.WithLabelValues(reason).Inc()

	if err := uc.AuditLog.LogRejectedClaim(ctx, auditlogger.ReferralAbuseEvent{
		Reason:            reason,
		SubjectSessionID:  input.SubjectSessionID,
		DeviceFingerprint: fp,
		Code:              input.Code,
		Timestamp:         occurredAt,
	}); err != nil {
		slog.Error("failed to persist referral abuse event", "error", err.Error())
	}

	go func() {
		if err := uc.Publisher.PublishReferralAbuse(publisher.ReferralAbuseEvent{
			Reason:            reason,
			SubjectSessionID:  input.SubjectSessionID,
			DeviceFingerprint: fp,
			Code:              input.Code,
			OccurredAt:        occurredAt,
		}); err != nil {
			slog.Error("failed to publish referral abuse event", "error", err.Error())
		}
	}()

	// Reason is recorded server-side only.
	return &referraldto.ClaimOutput{Accepted: false, Reason: reason}
}
