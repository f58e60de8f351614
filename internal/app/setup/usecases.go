package setup

import (
	"math/rand"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/usecase"
	"github.com/lumora/lumora-unlock-service/internal/usecase/smartlink"
	"github.com/lumora/lumora-unlock-service/pkg/refcode"
)

type UseCases struct {
	AttemptUsecase  usecase.AttemptUsecase
	ReferralUsecase usecase.ReferralUsecase
	LedgerUsecase   usecase.LedgerUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	codec := refcode.NewCodec(
		refcode.NewHMACSigner(cfg.Referral.Secret),
		time.Duration(cfg.Referral.MaxCodeAgeDays)*24*time.Hour,
	)
	if cfg.Referral.LegacySecret != "" {
		codec = codec.WithLegacySigner(refcode.NewLegacySigner(cfg.Referral.LegacySecret))
	}

	ledgerUsecase := usecase.NewDefaultLedgerUsecase(
		deps.Repositories.LedgerRepo,
		deps.Metrics,
		cfg.Policy.MaxAdsReduction,
	)

	referralUsecase := usecase.NewDefaultReferralUsecase(
		codec,
		deps.Repositories.FraudRepo,
		deps.Repositories.PendingRepo,
		ledgerUsecase,
		deps.AuditLogger,
		deps.Publisher,
		deps.Metrics,
		cfg.Referral,
		cfg.Policy.MaxAdsReduction,
	)

	attemptUsecase := usecase.NewDefaultAttemptUsecase(
		deps.Repositories.SessionRepo,
		deps.Repositories.AttemptRepo,
		deps.Repositories.SmartlinkRepo,
		deps.Repositories.ContentRepo,
		deps.Repositories.SettingsRepo,
		deps.Repositories.LedgerRepo,
		deps.Repositories.FraudRepo,
		deps.Repositories.RecentLinks,
		smartlink.NewSelector(rand.NewSource(time.Now().UnixNano())),
		referralUsecase,
		deps.Publisher,
		deps.Metrics,
		cfg.Policy,
	)

	return &UseCases{
		AttemptUsecase:  attemptUsecase,
		ReferralUsecase: referralUsecase,
		LedgerUsecase:   ledgerUsecase,
	}, nil
}
