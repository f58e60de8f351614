package models

import "time"

type RewardBalanceModel struct {
	SubjectID           string `gorm:"primaryKey"`
	Coins               int64  `gorm:"not null;default:0"`
	UnlockCards         int32  `gorm:"not null;default:0"`
	AdsReductionPercent int32  `gorm:"not null;default:0"`
	PriorityUntil       *time.Time `gorm:"default:null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (RewardBalanceModel) TableName() string {
	return "reward_balances"
}

// RewardTransactionModel rows are append-only. The balance row must always
// equal the fold over these deltas for the subject.
type RewardTransactionModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	SubjectID      string `gorm:"not null;index"`
	Type           string `gorm:"not null"`
	CoinsDelta     int64  `gorm:"not null;default:0"`
	CardsDelta     int32  `gorm:"not null;default:0"`
	ReductionDelta int32  `gorm:"not null;default:0"`
	ContentID      string
	CreatedAt      time.Time `gorm:"index"`
}

func (RewardTransactionModel) TableName() string {
	return "reward_transactions"
}

type PendingRewardModel struct {
	ID                  string `gorm:"primaryKey;type:uuid"`
	ReferrerSubjectID   string `gorm:"not null;index:idx_pending_referrer"`
	ReferredSessionID   string `gorm:"not null"`
	Coins               int64  `gorm:"not null;default:0"`
	UnlockCards         int32  `gorm:"not null;default:0"`
	AdsReductionPercent int32  `gorm:"not null;default:0"`
	Realized            bool   `gorm:"not null;default:false;index:idx_pending_referrer"`
	RealizedAt          *time.Time `gorm:"default:null"`
	CreatedAt           time.Time
}

func (PendingRewardModel) TableName() string {
	return "pending_rewards"
}
