package response

type ClaimReferralResponse struct {
	Accepted     bool  `json:"accepted"`
	WelcomeBonus int64 `json:"welcomeBonus,omitempty"`
}

type ReferralLinkResponse struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

type RealizeRewardsResponse struct {
	Realized int `json:"realized"`
}
