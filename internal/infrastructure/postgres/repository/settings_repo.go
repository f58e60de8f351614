package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/lumora/lumora-unlock-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

const (
	settingFallbackSmartlinkURL = "fallback_smartlink_url"
	settingDefaultAdsRequired   = "default_ads_required"
)

// DefaultSettingsRepository reads operator settings from the key/value table,
// falling back to configured defaults when a key is absent.
type DefaultSettingsRepository struct {
	DB              *gorm.DB
	DefaultAdsCount int32
}

func NewDefaultSettingsRepository(db *gorm.DB, defaultAdsCount int32) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{DB: db, DefaultAdsCount: defaultAdsCount}
}

func (r *DefaultSettingsRepository) FallbackSmartlinkURL(ctx context.Context) (string, error) {
	value, err := r.get(ctx, settingFallbackSmartlinkURL)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *DefaultSettingsRepository) DefaultAdsRequired(ctx context.Context) (int32, error) {
	value, err := r.get(ctx, settingDefaultAdsRequired)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return r.DefaultAdsCount, nil
	}

	count, err := strconv.ParseInt(value, 10, 32)
	if err != nil || count < 1 {
		return r.DefaultAdsCount, nil
	}
	return int32(count), nil
}

func (r *DefaultSettingsRepository) get(ctx context.Context, key string) (string, error) {
	var settingModel models.SettingModel
	err := r.DB.WithContext(ctx).Where("key = ?", key).First(&settingModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return settingModel.Value, nil
}
