package referraldto

const (
	ReasonAccepted            = "accepted"
	ReasonInvalidCode         = "invalid_code"
	ReasonSelfReferral        = "self_referral"
	ReasonAlreadyReferred     = "already_referred"
	ReasonAlreadyClaimed      = "already_claimed"
	ReasonDeviceLimitExceeded = "device_limit_exceeded"
)

type ClaimOutput struct {
	Accepted     bool
	Reason       string
	WelcomeBonus int64
}
