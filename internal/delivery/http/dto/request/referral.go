package request

// DeviceSignals carries the browser-observable attributes used for device
// fingerprinting. All fields are optional; missing ones hash as empty.
type DeviceSignals struct {
	UserAgent        string `json:"userAgent"`
	Language         string `json:"language"`
	Timezone         string `json:"timezone"`
	ScreenResolution string `json:"screenResolution"`
	Platform         string `json:"platform"`
}

type ClaimReferralRequest struct {
	Code             string        `json:"code" binding:"required"`
	SubjectSessionID string        `json:"subjectSessionId" binding:"required"`
	Signals          DeviceSignals `json:"signals"`
}

type RealizeRewardsRequest struct {
	SubjectSessionID string `json:"subjectSessionId" binding:"required"`
}
