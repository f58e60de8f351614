package usecase

import (
	"context"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/metrics"
)

type LedgerUsecase interface {
	GetBalance(ctx context.Context, subjectID string) (*domain.RewardBalance, error)
	Earn(ctx context.Context, subjectID string, coins int64, cards, reductionDelta int32, txType domain.RewardTransactionType, contentID string) (*domain.RewardBalance, error)
	Spend(ctx context.Context, subjectID string, coins int64) (*domain.RewardBalance, error)
	SpendForUnlockCard(ctx context.Context, subjectID string, cost int64) (*domain.RewardBalance, error)
	ActivatePriority(ctx context.Context, subjectID string, cost int64, duration time.Duration) (*domain.RewardBalance, error)
	ListTransactions(ctx context.Context, subjectID string, limit, offset int) ([]*domain.RewardTransaction, error)
}

// DefaultLedgerUsecase owns every balance mutation. Each operation runs as a
// single guarded read-modify-write in the repository, paired with its
// append-only transaction record, so balances never go negative and always
// equal the fold over the log.
type DefaultLedgerUsecase struct {
	LedgerRepo      domain.LedgerRepository
	Metrics         *metrics.UnlockMetrics
	MaxAdsReduction int32
}

func NewDefaultLedgerUsecase(ledgerRepo domain.LedgerRepository, unlockMetrics *metrics.UnlockMetrics, maxAdsReduction int32) *DefaultLedgerUsecase {
	return &DefaultLedgerUsecase{
		LedgerRepo:      ledgerRepo,
		Metrics:         unlockMetrics,
		MaxAdsReduction: maxAdsReduction,
	}
}

func (uc *DefaultLedgerUsecase) GetBalance(ctx context.Context, subjectID string) (*domain.RewardBalance, error) {
	return uc.LedgerRepo.GetBalance(ctx, subjectID)
}

func (uc *DefaultLedgerUsecase) Earn(ctx context.Context, subjectID string, coins int64, cards, reductionDelta int32, txType domain.RewardTransactionType, contentID string) (*domain.RewardBalance, error) {
	return uc.LedgerRepo.Mutate(ctx, subjectID, func(balance *domain.RewardBalance) (*domain.RewardTransaction, error) {
		balance.Coins += coins
		balance.UnlockCards += cards

		applied := reductionDelta
		next := balance.AdsReductionPercent + reductionDelta
		if next > uc.MaxAdsReduction {
			applied = uc.MaxAdsReduction - balance.AdsReductionPercent
			next = uc.MaxAdsReduction
		}
		if next < 0 {
			applied = -balance.AdsReductionPercent
			next = 0
		}
		balance.AdsReductionPercent = next

		return &domain.RewardTransaction{
			SubjectID:      subjectID,
			Type:           txType,
			CoinsDelta:     coins,
			CardsDelta:     cards,
			ReductionDelta: applied,
			ContentID:      contentID,
		}, nil
	})
}

func (uc *DefaultLedgerUsecase) Spend(ctx context.Context, subjectID string, coins int64) (*domain.RewardBalance, error) {
	balance, err := uc.LedgerRepo.Mutate(ctx, subjectID, func(balance *domain.RewardBalance) (*domain.RewardTransaction, error) {
		if balance.Coins < coins {
			return nil, domain.ErrInsufficientBalance
		}
		balance.Coins -= coins

		return &domain.RewardTransaction{
			SubjectID:  subjectID,
			Type:       domain.TxSpend,
			CoinsDelta: -coins,
		}, nil
	})
	if err == domain.ErrInsufficientBalance {
		uc.Metrics.LedgerSpendFailuresTotal.WithLabelValues("spend").Inc()
	}
	return balance, err
}

// SpendForUnlockCard trades coins for one unlock card.
func (uc *DefaultLedgerUsecase) SpendForUnlockCard(ctx context.Context, subjectID string, cost int64) (*domain.RewardBalance, error) {
	balance, err := uc.LedgerRepo.Mutate(ctx, subjectID, func(balance *domain.RewardBalance) (*domain.RewardTransaction, error) {
		if balance.Coins < cost {
			return nil, domain.ErrInsufficientBalance
		}
		balance.Coins -= cost
		balance.UnlockCards++

		return &domain.RewardTransaction{
			SubjectID:  subjectID,
			Type:       domain.TxUnlockCardSpend,
			CoinsDelta: -cost,
			CardsDelta: 1,
		}, nil
	})
	if err == domain.ErrInsufficientBalance {
		uc.Metrics.LedgerSpendFailuresTotal.WithLabelValues("unlock_card").Inc()
	}
	return balance, err
}

// ActivatePriority trades coins for a priority window. An already running
// window is extended, never cut short.
func (uc *DefaultLedgerUsecase) ActivatePriority(ctx context.Context, subjectID string, cost int64, duration time.Duration) (*domain.RewardBalance, error) {
	balance, err := uc.LedgerRepo.Mutate(ctx, subjectID, func(balance *domain.RewardBalance) (*domain.RewardTransaction, error) {
		if balance.Coins < cost {
			return nil, domain.ErrInsufficientBalance
		}
		balance.Coins -= cost

		from := time.Now()
		if balance.PriorityUntil != nil && balance.PriorityUntil.After(from) {
			from = *balance.PriorityUntil
		}
		until := from.Add(duration)
		balance.PriorityUntil = &until

		return &domain.RewardTransaction{
			SubjectID:  subjectID,
			Type:       domain.TxPriorityBuy,
			CoinsDelta: -cost,
		}, nil
	})
	if err == domain.ErrInsufficientBalance {
		uc.Metrics.LedgerSpendFailuresTotal.WithLabelValues("priority").Inc()
	}
	return balance, err
}

func (uc *DefaultLedgerUsecase) ListTransactions(ctx context.Context, subjectID string, limit, offset int) ([]*domain.RewardTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.LedgerRepo.ListTransactions(ctx, subjectID, limit, offset)
}
