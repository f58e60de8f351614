package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPendingRewardRepository keeps the deferred referrer rewards. The
// (referrer_subject_id, realized) index makes the unrealized lookup cheap;
// rows are never deleted.
type DefaultPendingRewardRepository struct {
	DB *gorm.DB
}

func NewDefaultPendingRewardRepository(db *gorm.DB) *DefaultPendingRewardRepository {
	return &DefaultPendingRewardRepository{DB: db}
}

func (r *DefaultPendingRewardRepository) Enqueue(ctx context.Context, reward *domain.PendingReward) error {
	rewardModel := models.PendingRewardModel{
		ID:                  uuid.New().String(),
		ReferrerSubjectID:   reward.ReferrerSubjectID,
		ReferredSessionID:   reward.ReferredSessionID,
		Coins:               reward.Coins,
		UnlockCards:         reward.UnlockCards,
		AdsReductionPercent: reward.AdsReductionPercent,
		Realized:            false,
	}

	if err := r.DB.WithContext(ctx).Create(&rewardModel).Error; err != nil {
		return err
	}

	reward.ID = rewardModel.ID
	return nil
}

func (r *DefaultPendingRewardRepository) ListUnrealized(ctx context.Context, referrerSubjectID string) ([]*domain.PendingReward, error) {
	var rewardModels []models.PendingRewardModel
	if err := r.DB.WithContext(ctx).
		Where("referrer_subject_id = ? AND realized = ?", referrerSubjectID, false).
		Order("created_at ASC").
		Find(&rewardModels).Error; err != nil {
		return nil, err
	}

	rewards := make([]*domain.PendingReward, len(rewardModels))
	for i, rewardModel := range rewardModels {
		rewards[i] = &domain.PendingReward{
			ID:                  rewardModel.ID,
			ReferrerSubjectID:   rewardModel.ReferrerSubjectID,
			ReferredSessionID:   rewardModel.ReferredSessionID,
			Coins:               rewardModel.Coins,
			UnlockCards:         rewardModel.UnlockCards,
			AdsReductionPercent: rewardModel.AdsReductionPercent,
			Realized:            rewardModel.Realized,
			RealizedAt:          rewardModel.RealizedAt,
			CreatedAt:           rewardModel.CreatedAt,
		}
	}

	return rewards, nil
}

// Realize flips the row and credits the referrer inside one database
// transaction. The guarded UPDATE on realized=false picks exactly one winner
// among concurrent callers; losers roll back without touching the balance.
func (r *DefaultPendingRewardRepository) Realize(ctx context.Context, reward *domain.PendingReward, realizedAt time.Time, maxAdsReduction int32) (bool, error) {
	realized := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PendingRewardModel{}).
			Where("id = ? AND realized = ?", reward.ID, false).
			Updates(map[string]interface{}{
				"realized":    true,
				"realized_at": realizedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return nil
		}

		var balanceModel models.RewardBalanceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("subject_id = ?", reward.ReferrerSubjectID).
			First(&balanceModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			balanceModel = models.RewardBalanceModel{SubjectID: reward.ReferrerSubjectID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&balanceModel).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("subject_id = ?", reward.ReferrerSubjectID).
				First(&balanceModel).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		reduction := balanceModel.AdsReductionPercent + reward.AdsReductionPercent
		if reduction > maxAdsReduction {
			reduction = maxAdsReduction
		}
		appliedReduction := reduction - balanceModel.AdsReductionPercent

		if err := tx.Model(&models.RewardBalanceModel{}).
			Where("subject_id = ?", reward.ReferrerSubjectID).
			Updates(map[string]interface{}{
				"coins":                 gorm.Expr("coins + ?", reward.Coins),
				"unlock_cards":          gorm.Expr("unlock_cards + ?", reward.UnlockCards),
				"ads_reduction_percent": reduction,
			}).Error; err != nil {
			return err
		}

		recordModel := models.RewardTransactionModel{
			ID:             uuid.New().String(),
			SubjectID:      reward.ReferrerSubjectID,
			Type:           string(domain.TxReferralReward),
			CoinsDelta:     reward.Coins,
			CardsDelta:     reward.UnlockCards,
			ReductionDelta: appliedReduction,
			CreatedAt:      realizedAt,
		}
		if err := tx.Create(&recordModel).Error; err != nil {
			return err
		}

		realized = true
		return nil
	})

	return realized, err
}

func (r *DefaultPendingRewardRepository) CountUnrealized(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&models.PendingRewardModel{}).
		Where("realized = ?", false).
		Count(&total).Error
	return total, err
}
