package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSessionRepository struct {
	DB *gorm.DB
}

func NewDefaultSessionRepository(db *gorm.DB) *DefaultSessionRepository {
	return &DefaultSessionRepository{DB: db}
}

func (r *DefaultSessionRepository) GetOrCreateSession(ctx context.Context, subjectID, contentID string, adsRequired int32) (*domain.UnlockSession, error) {
	var sessionModel models.UnlockSessionModel
	err := r.DB.WithContext(ctx).
		Where("subject_id = ? AND content_id = ?", subjectID, contentID).
		First(&sessionModel).Error
	if err == nil {
		return sessionToDomain(&sessionModel), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sessionModel = models.UnlockSessionModel{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		ContentID:   contentID,
		AdsRequired: adsRequired,
	}
	if err := r.DB.WithContext(ctx).Create(&sessionModel).Error; err != nil {
		// Lost a create race: the other writer's row wins.
		lookupErr := r.DB.WithContext(ctx).
			Where("subject_id = ? AND content_id = ?", subjectID, contentID).
			First(&sessionModel).Error
		if lookupErr != nil {
			return nil, err
		}
	}

	return sessionToDomain(&sessionModel), nil
}

func (r *DefaultSessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*domain.UnlockSession, error) {
	var sessionModel models.UnlockSessionModel
	if err := r.DB.WithContext(ctx).Where("id = ?", sessionID).First(&sessionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return sessionToDomain(&sessionModel), nil
}

func sessionToDomain(m *models.UnlockSessionModel) *domain.UnlockSession {
	return &domain.UnlockSession{
		ID:          m.ID,
		SubjectID:   m.SubjectID,
		ContentID:   m.ContentID,
		AdsRequired: m.AdsRequired,
		AdsWatched:  m.AdsWatched,
		Completed:   m.Completed,
		UpdatedAt:   m.UpdatedAt,
	}
}
