package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultFraudProfileRepository struct {
	DB *gorm.DB
}

func NewDefaultFraudProfileRepository(db *gorm.DB) *DefaultFraudProfileRepository {
	return &DefaultFraudProfileRepository{DB: db}
}

func (r *DefaultFraudProfileRepository) GetOrCreateProfile(ctx context.Context, fingerprint, sessionID string) (*domain.FraudProfile, error) {
	var profileModel models.FraudProfileModel
	err := r.DB.WithContext(ctx).Where("device_fingerprint = ?", fingerprint).First(&profileModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		profileModel = models.FraudProfileModel{
			DeviceFingerprint: fingerprint,
			SessionID:         sessionID,
			FirstSeenAt:       now,
			LastActivityAt:    now,
		}
		if createErr := r.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&profileModel).Error; createErr != nil {
			return nil, createErr
		}
		err = r.DB.WithContext(ctx).Where("device_fingerprint = ?", fingerprint).First(&profileModel).Error
	}
	if err != nil {
		return nil, err
	}

	// The same device may show up under a new browser session id.
	if profileModel.SessionID != sessionID {
		if err := r.DB.WithContext(ctx).Model(&models.FraudProfileModel{}).
			Where("device_fingerprint = ?", fingerprint).
			Update("session_id", sessionID).Error; err != nil {
			return nil, err
		}
		profileModel.SessionID = sessionID
	}

	return r.profileToDomain(ctx, &profileModel)
}

func (r *DefaultFraudProfileRepository) GetProfileBySession(ctx context.Context, sessionID string) (*domain.FraudProfile, error) {
	var profileModel models.FraudProfileModel
	if err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&profileModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.profileToDomain(ctx, &profileModel)
}

func (r *DefaultFraudProfileRepository) CountClaimedByFingerprint(ctx context.Context, fingerprint string) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&models.FraudClaimedCodeModel{}).
		Where("device_fingerprint = ?", fingerprint).
		Count(&total).Error
	return total, err
}

func (r *DefaultFraudProfileRepository) RecordClaim(ctx context.Context, fingerprint, code, referredBy string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimModel := models.FraudClaimedCodeModel{
			DeviceFingerprint: fingerprint,
			Code:              code,
		}
		if err := tx.Create(&claimModel).Error; err != nil {
			return err
		}

		// referredBy is one-way: only an empty value may be overwritten.
		return tx.Model(&models.FraudProfileModel{}).
			Where("device_fingerprint = ? AND (referred_by IS NULL OR referred_by = '')", fingerprint).
			Updates(map[string]interface{}{
				"referred_by":      referredBy,
				"last_activity_at": time.Now(),
			}).Error
	})
}

func (r *DefaultFraudProfileRepository) AddActivity(ctx context.Context, fingerprint string, unlocks int32, timeSpentSeconds int64) error {
	return r.DB.WithContext(ctx).Model(&models.FraudProfileModel{}).
		Where("device_fingerprint = ?", fingerprint).
		Updates(map[string]interface{}{
			"unlock_count":             gorm.Expr("unlock_count + ?", unlocks),
			"total_time_spent_seconds": gorm.Expr("total_time_spent_seconds + ?", timeSpentSeconds),
			"last_activity_at":         time.Now(),
		}).Error
}

func (r *DefaultFraudProfileRepository) profileToDomain(ctx context.Context, m *models.FraudProfileModel) (*domain.FraudProfile, error) {
	var claimModels []models.FraudClaimedCodeModel
	if err := r.DB.WithContext(ctx).
		Where("device_fingerprint = ?", m.DeviceFingerprint).
		Find(&claimModels).Error; err != nil {
		return nil, err
	}

	claimed := make([]string, len(claimModels))
	for i, claimModel := range claimModels {
		claimed[i] = claimModel.Code
	}

	return &domain.FraudProfile{
		DeviceFingerprint:     m.DeviceFingerprint,
		SessionID:             m.SessionID,
		ReferredBy:            m.ReferredBy,
		ClaimedReferralCodes:  claimed,
		UnlockCount:           m.UnlockCount,
		TotalTimeSpentSeconds: m.TotalTimeSpentSeconds,
		FirstSeenAt:           m.FirstSeenAt,
		LastActivityAt:        m.LastActivityAt,
	}, nil
}
