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

type DefaultAttemptRepository struct {
	DB *gorm.DB
}

func NewDefaultAttemptRepository(db *gorm.DB) *DefaultAttemptRepository {
	return &DefaultAttemptRepository{DB: db}
}

func (r *DefaultAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.AdAttempt) error {
	attemptModel := models.AdAttemptModel{
		Token:       attempt.Token,
		SessionID:   attempt.SessionID,
		ContentID:   attempt.ContentID,
		SubjectID:   attempt.SubjectID,
		SmartlinkID: attempt.SmartlinkID,
		StartedAt:   attempt.StartedAt,
		Used:        false,
	}
	return r.DB.WithContext(ctx).Create(&attemptModel).Error
}

func (r *DefaultAttemptRepository) GetAttemptByToken(ctx context.Context, token string) (*domain.AdAttempt, error) {
	var attemptModel models.AdAttemptModel
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&attemptModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return attemptToDomain(&attemptModel), nil
}

func (r *DefaultAttemptRepository) LastCompletedAttempt(ctx context.Context, sessionID, contentID string) (*domain.AdAttempt, error) {
	var attemptModel models.AdAttemptModel
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND content_id = ? AND used = ?", sessionID, contentID, true).
		Order("completed_at DESC").
		First(&attemptModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return attemptToDomain(&attemptModel), nil
}

// CompleteAttempt is the critical section of the unlock flow: check used,
// mark used, bump session progress, all in one transaction with attempt and session
// rows locked FOR UPDATE. Exactly one of any number of racing callers wins;
// the rest get ErrTokenUsed.
func (r *DefaultAttemptRepository) CompleteAttempt(ctx context.Context, token string, completedAt time.Time) (*domain.UnlockSession, bool, error) {
	var updatedSession *domain.UnlockSession
	var unlocked bool

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attemptModel models.AdAttemptModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&attemptModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInvalidToken
			}
			return err
		}

		if attemptModel.Used {
			return domain.ErrTokenUsed
		}

		if err := tx.Model(&models.AdAttemptModel{}).
			Where("token = ? AND used = ?", token, false).
			Updates(map[string]interface{}{
				"used":         true,
				"completed_at": completedAt,
			}).Error; err != nil {
			return err
		}

		var sessionModel models.UnlockSessionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", attemptModel.SessionID).
			First(&sessionModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}

		// Exactly +1 per success, hard-capped at adsRequired.
		if sessionModel.AdsWatched < sessionModel.AdsRequired {
			sessionModel.AdsWatched++
		}
		if sessionModel.AdsWatched >= sessionModel.AdsRequired && !sessionModel.Completed {
			sessionModel.Completed = true
			unlocked = true
		}

		if err := tx.Model(&models.UnlockSessionModel{}).
			Where("id = ?", sessionModel.ID).
			Updates(map[string]interface{}{
				"ads_watched": sessionModel.AdsWatched,
				"completed":   sessionModel.Completed,
			}).Error; err != nil {
			return err
		}

		updatedSession = sessionToDomain(&sessionModel)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return updatedSession, unlocked, nil
}

func attemptToDomain(m *models.AdAttemptModel) *domain.AdAttempt {
	return &domain.AdAttempt{
		Token:       m.Token,
		SessionID:   m.SessionID,
		ContentID:   m.ContentID,
		SubjectID:   m.SubjectID,
		SmartlinkID: m.SmartlinkID,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
		Used:        m.Used,
	}
}
