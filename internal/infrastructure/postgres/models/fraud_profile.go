package models

import "time"

type FraudProfileModel struct {
	DeviceFingerprint     string `gorm:"primaryKey"`
	SessionID             string `gorm:"index"`
	ReferredBy            string
	UnlockCount           int32 `gorm:"not null;default:0"`
	TotalTimeSpentSeconds int64 `gorm:"not null;default:0"`
	FirstSeenAt           time.Time
	LastActivityAt        time.Time
}

func (FraudProfileModel) TableName() string {
	return "fraud_profiles"
}

// FraudClaimedCodeModel is one row per (device, code) so the per-device
// distinct claim count is a SQL aggregate.
type FraudClaimedCodeModel struct {
	ID                uint   `gorm:"primaryKey"`
	DeviceFingerprint string `gorm:"index:idx_device_code,unique;not null"`
	Code              string `gorm:"index:idx_device_code,unique;not null"`
	CreatedAt         time.Time
}

func (FraudClaimedCodeModel) TableName() string {
	return "fraud_claimed_codes"
}
