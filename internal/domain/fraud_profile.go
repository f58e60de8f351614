package domain

import (
	"context"
	"time"
)

// FraudProfile is per-device bookkeeping used to bound referral abuse.
// Not a security boundary, a cost-raising heuristic.
type FraudProfile struct {
	DeviceFingerprint     string
	SessionID             string
	ReferredBy            string
	ClaimedReferralCodes  []string
	UnlockCount           int32
	TotalTimeSpentSeconds int64
	FirstSeenAt           time.Time
	LastActivityAt        time.Time
}

func (p *FraudProfile) HasClaimed(code string) bool {
	for _, c := range p.ClaimedReferralCodes {
		if c == code {
			return true
		}
	}
	return false
}

type FraudProfileRepository interface {
	GetOrCreateProfile(ctx context.Context, fingerprint, sessionID string) (*FraudProfile, error)
	GetProfileBySession(ctx context.Context, sessionID string) (*FraudProfile, error)
	// CountClaimedByFingerprint counts distinct claimed codes across every
	// session tied to the fingerprint.
	CountClaimedByFingerprint(ctx context.Context, fingerprint string) (int64, error)
	// RecordClaim appends the code and sets referredBy in one write.
	// referredBy may be set at most once per device.
	RecordClaim(ctx context.Context, fingerprint, code, referredBy string) error
	AddActivity(ctx context.Context, fingerprint string, unlocks int32, timeSpentSeconds int64) error
}
