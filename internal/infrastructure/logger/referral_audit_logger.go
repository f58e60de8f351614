package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ReferralAbuseEvent is the persisted audit row for a rejected referral
// claim. Requesters only see a generic rejection; the precise reason is
// recorded here for fraud analytics.
type ReferralAbuseEvent struct {
	ID                uint   `gorm:"primaryKey"`
	Reason            string `gorm:"index"`
	SubjectSessionID  string
	DeviceFingerprint string `gorm:"index"`
	Code              string
	Timestamp         time.Time
}

func (ReferralAbuseEvent) TableName() string {
	return "referral_abuse_events"
}

type ReferralAuditLogger interface {
	LogRejectedClaim(ctx context.Context, event ReferralAbuseEvent) error
}

type PGReferralAuditLogger struct {
	db *gorm.DB
}

func NewPGReferralAuditLogger(db *gorm.DB) *PGReferralAuditLogger {
	db.AutoMigrate(&ReferralAbuseEvent{})
	return &PGReferralAuditLogger{db: db}
}

func (l *PGReferralAuditLogger) LogRejectedClaim(ctx context.Context, event ReferralAbuseEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
