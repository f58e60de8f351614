package domain

import (
	"context"
	"time"
)

type RewardTransactionType string

const (
	TxReferralWelcome RewardTransactionType = "REFERRAL_WELCOME"
	TxReferralReward  RewardTransactionType = "REFERRAL_REWARD"
	TxSpend           RewardTransactionType = "SPEND"
	TxUnlockCardSpend RewardTransactionType = "UNLOCK_CARD_SPEND"
	TxPriorityBuy     RewardTransactionType = "PRIORITY_BUY"
	TxAdminAdjust     RewardTransactionType = "ADMIN_ADJUST"
)

// RewardBalance holds a subject's spendable balances. Coins and unlock cards
// never go negative; adsReductionPercent is clamped to [0, maxAdsReduction].
type RewardBalance struct {
	SubjectID           string
	Coins               int64
	UnlockCards         int32
	AdsReductionPercent int32
	PriorityUntil       *time.Time
	UpdatedAt           time.Time
}

// RewardTransaction is one immutable ledger entry. The current balance must
// always equal the fold of all entries for the subject.
type RewardTransaction struct {
	ID             string
	SubjectID      string
	Type           RewardTransactionType
	CoinsDelta     int64
	CardsDelta     int32
	ReductionDelta int32
	ContentID      string
	CreatedAt      time.Time
}

// LedgerMutation is applied by the repository inside one transaction holding a
// row lock on the subject's balance. Returning an error rolls everything back.
type LedgerMutation func(balance *RewardBalance) (*RewardTransaction, error)

type LedgerRepository interface {
	GetBalance(ctx context.Context, subjectID string) (*RewardBalance, error)
	// Mutate loads the balance FOR UPDATE (creating a zero row if absent),
	// applies fn, persists the new balance and appends the returned transaction
	// record atomically.
	Mutate(ctx context.Context, subjectID string, fn LedgerMutation) (*RewardBalance, error)
	ListTransactions(ctx context.Context, subjectID string, limit, offset int) ([]*RewardTransaction, error)
}
