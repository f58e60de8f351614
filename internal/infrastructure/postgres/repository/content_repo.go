package repository

import (
	"context"
	"errors"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultContentRepository struct {
	DB *gorm.DB
}

func NewDefaultContentRepository(db *gorm.DB) *DefaultContentRepository {
	return &DefaultContentRepository{DB: db}
}

func (r *DefaultContentRepository) GetContent(ctx context.Context, contentID string) (*domain.Content, error) {
	var contentModel models.ContentModel
	if err := r.DB.WithContext(ctx).Where("id = ?", contentID).First(&contentModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContentNotFound
		}
		return nil, err
	}

	return &domain.Content{
		ID:          contentModel.ID,
		AdsRequired: contentModel.AdsRequired,
		Status:      domain.ContentStatus(contentModel.Status),
		UnlockCount: contentModel.UnlockCount,
	}, nil
}

func (r *DefaultContentRepository) IncrementUnlocks(ctx context.Context, contentID string) error {
	return r.DB.WithContext(ctx).Model(&models.ContentModel{}).
		Where("id = ?", contentID).
		Update("unlock_count", gorm.Expr("unlock_count + 1")).Error
}
