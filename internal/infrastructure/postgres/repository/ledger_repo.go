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

type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{DB: db}
}

func (r *DefaultLedgerRepository) GetBalance(ctx context.Context, subjectID string) (*domain.RewardBalance, error) {
	var balanceModel models.RewardBalanceModel
	err := r.DB.WithContext(ctx).Where("subject_id = ?", subjectID).First(&balanceModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Balances are created lazily with zeros.
		return &domain.RewardBalance{SubjectID: subjectID}, nil
	}
	if err != nil {
		return nil, err
	}
	return balanceToDomain(&balanceModel), nil
}

// Mutate serializes all ledger writes for one subject behind a row lock and
// appends the transaction record in the same database transaction, so the
// balance and its log can never diverge.
func (r *DefaultLedgerRepository) Mutate(ctx context.Context, subjectID string, fn domain.LedgerMutation) (*domain.RewardBalance, error) {
	var result *domain.RewardBalance

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var balanceModel models.RewardBalanceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("subject_id = ?", subjectID).
			First(&balanceModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			balanceModel = models.RewardBalanceModel{SubjectID: subjectID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&balanceModel).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("subject_id = ?", subjectID).
				First(&balanceModel).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		balance := balanceToDomain(&balanceModel)
		record, err := fn(balance)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.RewardBalanceModel{}).
			Where("subject_id = ?", subjectID).
			Updates(map[string]interface{}{
				"coins":                 balance.Coins,
				"unlock_cards":          balance.UnlockCards,
				"ads_reduction_percent": balance.AdsReductionPercent,
				"priority_until":        balance.PriorityUntil,
			}).Error; err != nil {
			return err
		}

		if record != nil {
			recordModel := models.RewardTransactionModel{
				ID:             uuid.New().String(),
				SubjectID:      subjectID,
				Type:           string(record.Type),
				CoinsDelta:     record.CoinsDelta,
				CardsDelta:     record.CardsDelta,
				ReductionDelta: record.ReductionDelta,
				ContentID:      record.ContentID,
				CreatedAt:      time.Now(),
			}
			if err := tx.Create(&recordModel).Error; err != nil {
				return err
			}
		}

		result = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *DefaultLedgerRepository) ListTransactions(ctx context.Context, subjectID string, limit, offset int) ([]*domain.RewardTransaction, error) {
	var recordModels []models.RewardTransactionModel
	if err := r.DB.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*domain.RewardTransaction, len(recordModels))
	for i, recordModel := range recordModels {
		records[i] = &domain.RewardTransaction{
			ID:             recordModel.ID,
			SubjectID:      recordModel.SubjectID,
			Type:           domain.RewardTransactionType(recordModel.Type),
			CoinsDelta:     recordModel.CoinsDelta,
			CardsDelta:     recordModel.CardsDelta,
			ReductionDelta: recordModel.ReductionDelta,
			ContentID:      recordModel.ContentID,
			CreatedAt:      recordModel.CreatedAt,
		}
	}

	return records, nil
}

func balanceToDomain(m *models.RewardBalanceModel) *domain.RewardBalance {
	return &domain.RewardBalance{
		SubjectID:           m.SubjectID,
		Coins:               m.Coins,
		UnlockCards:         m.UnlockCards,
		AdsReductionPercent: m.AdsReductionPercent,
		PriorityUntil:       m.PriorityUntil,
		UpdatedAt:           m.UpdatedAt,
	}
}
