package publisher

import "time"

// UnlockEvent is emitted once per session when adsWatched reaches adsRequired.
type UnlockEvent struct {
	SessionID   string    `json:"session_id"`
	SubjectID   string    `json:"subject_id"`
	ContentID   string    `json:"content_id"`
	AdsWatched  int32     `json:"ads_watched"`
	AdsRequired int32     `json:"ads_required"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// ReferralAbuseEvent records a rejected referral claim for fraud analytics.
// The requester only ever sees a generic rejection; the precise reason lives
// here and in the audit table.
type ReferralAbuseEvent struct {
	Reason            string    `json:"reason"`
	SubjectSessionID  string    `json:"subject_session_id"`
	DeviceFingerprint string    `json:"device_fingerprint"`
	Code              string    `json:"code"`
	OccurredAt        time.Time `json:"occurred_at"`
}
