package models

import "time"

// AdAttemptModel has no expiry column: expiry is computed from started_at at
// read time so replicas never disagree on it.
type AdAttemptModel struct {
	Token       string `gorm:"primaryKey"`
	SessionID   string `gorm:"type:uuid;not null;index:idx_attempt_session"`
	ContentID   string `gorm:"not null;index:idx_attempt_session"`
	SubjectID   string `gorm:"not null"`
	SmartlinkID string
	StartedAt   time.Time  `gorm:"not null"`
	CompletedAt *time.Time `gorm:"default:null"`
	Used        bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

func (AdAttemptModel) TableName() string {
	return "ad_attempts"
}
