package repository

import (
	"context"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// DefaultSmartlinkRepository reads the admin-managed smartlink pool.
// The core never writes these rows.
type DefaultSmartlinkRepository struct {
	DB *gorm.DB
}

func NewDefaultSmartlinkRepository(db *gorm.DB) *DefaultSmartlinkRepository {
	return &DefaultSmartlinkRepository{DB: db}
}

func (r *DefaultSmartlinkRepository) ListActive(ctx context.Context) ([]*domain.Smartlink, error) {
	var linkModels []models.SmartlinkModel
	if err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&linkModels).Error; err != nil {
		return nil, err
	}

	links := make([]*domain.Smartlink, len(linkModels))
	for i, linkModel := range linkModels {
		links[i] = &domain.Smartlink{
			ID:       linkModel.ID,
			URL:      linkModel.URL,
			Weight:   linkModel.Weight,
			IsActive: linkModel.IsActive,
		}
	}

	return links, nil
}

func (r *DefaultSmartlinkRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&models.SmartlinkModel{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}
