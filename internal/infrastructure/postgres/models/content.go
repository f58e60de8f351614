package models

import "time"

// ContentModel is the narrow projection of the admin-managed content store.
// CRUD lives with the admin collaborator; the core reads ads_required/status
// and bumps unlock_count.
type ContentModel struct {
	ID          string `gorm:"primaryKey"`
	AdsRequired int32  `gorm:"not null;default:0"` // 0 = use operator default
	Status      string `gorm:"not null;default:'PUBLISHED'"`
	UnlockCount int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ContentModel) TableName() string {
	return "contents"
}

type SettingModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (SettingModel) TableName() string {
	return "settings"
}
