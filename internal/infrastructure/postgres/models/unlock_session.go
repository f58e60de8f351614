package models

import "time"

type UnlockSessionModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	SubjectID   string `gorm:"index:idx_subject_content,unique;not null"`
	ContentID   string `gorm:"index:idx_subject_content,unique;not null"`
	AdsRequired int32  `gorm:"not null"`
	AdsWatched  int32  `gorm:"not null;default:0"`
	Completed   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UnlockSessionModel) TableName() string {
	return "unlock_sessions"
}
