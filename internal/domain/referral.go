package domain

import (
	"context"
	"time"
)

// PendingReward is a credited-but-not-yet-applied reward owed to a referrer,
// realized on that referrer's next activity. Rows never expire.
type PendingReward struct {
	ID                  string
	ReferrerSubjectID   string
	ReferredSessionID   string
	Coins               int64
	UnlockCards         int32
	AdsReductionPercent int32
	Realized            bool
	RealizedAt          *time.Time
	CreatedAt           time.Time
}

type PendingRewardRepository interface {
	Enqueue(ctx context.Context, reward *PendingReward) error
	ListUnrealized(ctx context.Context, referrerSubjectID string) ([]*PendingReward, error)
	// Realize flips the row unrealized->realized and credits the referrer's
	// balance with the reward (ads reduction clamped to maxAdsReduction),
	// appending the ledger record, all in one atomic operation. Returns
	// false when a concurrent caller already realized the row; nothing is
	// credited twice.
	Realize(ctx context.Context, reward *PendingReward, realizedAt time.Time, maxAdsReduction int32) (bool, error)
	CountUnrealized(ctx context.Context) (int64, error)
}
