package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/lumora/lumora-unlock-service/internal/config"
	"github.com/lumora/lumora-unlock-service/internal/domain"
	publisher "github.com/lumora/lumora-unlock-service/internal/infrastructure/kafka"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/metrics"
	attemptdto "github.com/lumora/lumora-unlock-service/internal/usecase/dto/attempt"
	"github.com/lumora/lumora-unlock-service/internal/usecase/smartlink"
)

type AttemptUsecase interface {
	StartAttempt(ctx context.Context, input *attemptdto.StartAttemptInput) (*attemptdto.StartAttemptOutput, error)
	CompleteAttempt(ctx context.Context, token string) (*attemptdto.CompleteAttemptOutput, error)
	GetOrCreateSession(ctx context.Context, subjectSessionID, contentID string) (*domain.UnlockSession, error)
}

// UnlockPublisher is the slice of the event publisher the attempt engine uses.
type UnlockPublisher interface {
	PublishUnlock(event publisher.UnlockEvent) error
}

type DefaultAttemptUsecase struct {
	SessionRepo   domain.SessionRepository
	AttemptRepo   domain.AttemptRepository
	SmartlinkRepo domain.SmartlinkRepository
	ContentRepo   domain.ContentRepository
	SettingsRepo  domain.SettingsRepository
	LedgerRepo    domain.LedgerRepository
	FraudRepo     domain.FraudProfileRepository
	RecentLinks   domain.RecentLinkStore
	Selector      *smartlink.Selector
	Referral      ReferralUsecase
	Publisher     UnlockPublisher
	Metrics       *metrics.UnlockMetrics
	Policy        config.Policy

	now func() time.Time
}

func NewDefaultAttemptUsecase(
	sessionRepo domain.SessionRepository,
	attemptRepo domain.AttemptRepository,
	smartlinkRepo domain.SmartlinkRepository,
	contentRepo domain.ContentRepository,
	settingsRepo domain.SettingsRepository,
	ledgerRepo domain.LedgerRepository,
	fraudRepo domain.FraudProfileRepository,
	recentLinks domain.RecentLinkStore,
	selector *smartlink.Selector,
	referralUsecase ReferralUsecase,
	unlockPublisher UnlockPublisher,
	unlockMetrics *metrics.UnlockMetrics,
	policy config.Policy) *DefaultAttemptUsecase {

	return &DefaultAttemptUsecase{
		SessionRepo:   sessionRepo,
		AttemptRepo:   attemptRepo,
		SmartlinkRepo: smartlinkRepo,
		ContentRepo:   contentRepo,
		SettingsRepo:  settingsRepo,
		LedgerRepo:    ledgerRepo,
		FraudRepo:     fraudRepo,
		RecentLinks:   recentLinks,
		Selector:      selector,
		Referral:      referralUsecase,
		Publisher:     unlockPublisher,
		Metrics:       unlockMetrics,
		Policy:        policy,
		now:           time.Now,
	}
}

// WithClock overrides the engine clock. Tests only.
func (uc *DefaultAttemptUsecase) WithClock(now func() time.Time) *DefaultAttemptUsecase {
	uc.now = now
	return uc
}

// GetOrCreateSession resolves the unlock session for a (subject, content)
// pair, fixing adsRequired at creation time from the content override, the
// operator default and the subject's earned ads reduction. Pending referral
// rewards for the subject are realized opportunistically here: session start
// is the first moment we know the referrer is back.
func (uc *DefaultAttemptUsecase) GetOrCreateSession(ctx context.Context, subjectSessionID, contentID string) (*domain.UnlockSession, error) {
	content, err := uc.ContentRepo.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content.Status != domain.ContentPublished {
		return nil, domain.ErrContentNotFound
	}

	adsRequired := content.AdsRequired
	if adsRequired < 1 {
		adsRequired, err = uc.SettingsRepo.DefaultAdsRequired(ctx)
		if err != nil {
			return nil, err
		}
	}
	if adsRequired < 1 {
		adsRequired = 1
	}

	balance, err := uc.LedgerRepo.GetBalance(ctx, subjectSessionID)
	if err != nil {
		return nil, err
	}
	if balance.AdsReductionPercent > 0 {
		reduced := adsRequired - adsRequired*balance.AdsReductionPercent/100
		if reduced < 1 {
			reduced = 1
		}
		adsRequired = reduced
	}

	session, err := uc.SessionRepo.GetOrCreateSession(ctx, subjectSessionID, contentID, adsRequired)
	if err != nil {
		return nil, err
	}

	if uc.Referral != nil {
		if _, err := uc.Referral.RealizePendingRewards(ctx, subjectSessionID); err != nil {
			slog.Error("failed to realize pending rewards", "subject", subjectSessionID, "error", err.Error())
		}
	}

	return session, nil
}

func (uc *DefaultAttemptUsecase) StartAttempt(ctx context.Context, input *attemptdto.StartAttemptInput) (*attemptdto.StartAttemptOutput, error) {
	session, err := uc.GetOrCreateSession(ctx, input.SubjectSessionID, input.ContentID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	// Cooldown runs from the most recent completed attempt only: issued but
	// never-completed tokens do not throttle the subject.
	last, err := uc.AttemptRepo.LastCompletedAttempt(ctx, session.ID, input.ContentID)
	if err != nil {
		return nil, err
	}
	if last != nil && last.CompletedAt != nil {
		elapsed := now.Sub(*last.CompletedAt)
		cooldown := time.Duration(uc.Policy.CooldownSeconds) * time.Second
		if elapsed < cooldown {
			uc.Metrics.AttemptFailuresTotal.WithLabelValues("cooldown").Inc()
			return nil, &domain.CooldownError{
				WaitSeconds: int64((cooldown - elapsed + time.Second - 1) / time.Second),
			}
		}
	}

	pool, err := uc.SmartlinkRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.RecentLinks.Recent(ctx, session.ID, input.ContentID, uc.Policy.AntiRepeatWindow)
	if err != nil {
		slog.Error("failed to read recent smartlinks", "session", session.ID, "error", err.Error())
		recent = nil
	}

	var smartlinkID, smartlinkURL string
	if link := uc.Selector.Select(pool, recent); link != nil {
		smartlinkID = link.ID
		smartlinkURL = link.URL
	} else {
		smartlinkURL, err = uc.SettingsRepo.FallbackSmartlinkURL(ctx)
		if err != nil {
			return nil, err
		}
		if smartlinkURL == "" {
			uc.Metrics.AttemptFailuresTotal.WithLabelValues("no_smartlink").Inc()
			return nil, domain.ErrNoSmartlink
		}
	}

	tokenGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	token := tokenGenerator()

	if err := uc.AttemptRepo.CreateAttempt(ctx, &domain.AdAttempt{
		Token:       token,
		SessionID:   session.ID,
		ContentID:   input.ContentID,
		SubjectID:   input.SubjectSessionID,
		SmartlinkID: smartlinkID,
		StartedAt:   now,
	}); err != nil {
		return nil, err
	}

	if smartlinkID != "" {
		if err := uc.RecentLinks.Push(ctx, session.ID, input.ContentID, smartlinkID); err != nil {
			slog.Error("failed to record recent smartlink", "session", session.ID, "error", err.Error())
		}
	}

	uc.Metrics.AttemptsStartedTotal.WithLabelValues(input.ContentID).Inc()

	return &attemptdto.StartAttemptOutput{
		Token:           token,
		StartedAt:       now,
		MinWatchSeconds: uc.Policy.MinWatchTimeSeconds,
		SmartlinkURL:    smartlinkURL,
		SmartlinkID:     smartlinkID,
	}, nil
}

func (uc *DefaultAttemptUsecase) CompleteAttempt(ctx context.Context, token string) (*attemptdto.CompleteAttemptOutput, error) {
	attempt, err := uc.AttemptRepo.GetAttemptByToken(ctx, token)
	if err != nil {
		uc.Metrics.AttemptFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, err
	}

	if attempt.Used {
		uc.Metrics.AttemptFailuresTotal.WithLabelValues("token_used").Inc()
		return nil, domain.ErrTokenUsed
	}

	now := uc.now()
	elapsed := now.Sub(attempt.StartedAt)

	// Both gates run on the server clock. Client-reported durations are
	// never consulted.
	if elapsed > time.Duration(uc.Policy.TokenExpirySeconds)*time.Second {
		uc.Metrics.AttemptFailuresTotal.WithLabelValues("token_expired").Inc()
		return nil, domain.ErrTokenExpired
	}
	minWatch := time.Duration(uc.Policy.MinWatchTimeSeconds) * time.Second
	if elapsed < minWatch {
		uc.Metrics.AttemptFailuresTotal.WithLabelValues("too_fast").Inc()
		return nil, &domain.TooFastError{
			RemainingSeconds: int64((minWatch - elapsed + time.Second - 1) / time.Second),
		}
	}

	session, unlocked, err := uc.AttemptRepo.CompleteAttempt(ctx, token, now)
	if err != nil {
		if err == domain.ErrTokenUsed {
			uc.Metrics.AttemptFailuresTotal.WithLabelValues("token_used").Inc()
		}
		return nil, err
	}

	uc.Metrics.AttemptsCompletedTotal.WithLabelValues(attempt.ContentID).Inc()
	uc.Metrics.WatchDuration.WithLabelValues(attempt.ContentID).Observe(elapsed.Seconds())

	uc.recordWatchActivity(ctx, attempt.SubjectID, unlocked, int64(elapsed/time.Second))

	if unlocked {
		uc.Metrics.UnlocksTotal.WithLabelValues(attempt.ContentID).Inc()
		event := publisher.UnlockEvent{
			SessionID:   session.ID,
			SubjectID:   session.SubjectID,
			ContentID:   session.ContentID,
			AdsWatched:  session.AdsWatched,
			AdsRequired: session.AdsRequired,
			UnlockedAt:  now,
		}
		go func() {
			if err := uc.Publisher.PublishUnlock(event); err != nil {
				slog.Error("failed to publish unlock event", "session", event.SessionID, "error", err.Error())
			}
		}()
	}

	return &attemptdto.CompleteAttemptOutput{
		Session:  *session,
		Unlocked: unlocked,
	}, nil
}

// recordWatchActivity feeds the device fraud profile so referral eligibility
// can be judged later. Best effort: a missing profile just means the device
// never touched the referral flow.
func (uc *DefaultAttemptUsecase) recordWatchActivity(ctx context.Context, subjectSessionID string, unlocked bool, watchedSeconds int64) {
	profile, err := uc.FraudRepo.GetProfileBySession(ctx, subjectSessionID)
	if err != nil || profile == nil {
		return
	}
	var unlocks int32
	if unlocked {
		unlocks = 1
	}
	if err := uc.FraudRepo.AddActivity(ctx, profile.DeviceFingerprint, unlocks, watchedSeconds); err != nil {
		slog.Error("failed to record watch activity", "fingerprint", profile.DeviceFingerprint, "error", err.Error())
	}
}
