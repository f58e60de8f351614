package response

import (
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
)

type BalanceResponse struct {
	SubjectID           string     `json:"subjectId"`
	Coins               int64      `json:"coins"`
	UnlockCards         int32      `json:"unlockCards"`
	AdsReductionPercent int32      `json:"adsReductionPercent"`
	PriorityUntil       *time.Time `json:"priorityUntil,omitempty"`
}

func BalanceFromDomain(b *domain.RewardBalance) BalanceResponse {
	return BalanceResponse{
		SubjectID:           b.SubjectID,
		Coins:               b.Coins,
		UnlockCards:         b.UnlockCards,
		AdsReductionPercent: b.AdsReductionPercent,
		PriorityUntil:       b.PriorityUntil,
	}
}

type SpendResponse struct {
	OK      bool            `json:"ok"`
	Balance BalanceResponse `json:"balance"`
}

type TransactionResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	CoinsDelta     int64     `json:"coinsDelta"`
	CardsDelta     int32     `json:"cardsDelta"`
	ReductionDelta int32     `json:"reductionDelta"`
	ContentID      string    `json:"contentId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func TransactionFromDomain(t *domain.RewardTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Type:           string(t.Type),
		CoinsDelta:     t.CoinsDelta,
		CardsDelta:     t.CardsDelta,
		ReductionDelta: t.ReductionDelta,
		ContentID:      t.ContentID,
		CreatedAt:      t.CreatedAt,
	}
}
