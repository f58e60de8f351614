package referraldto

import "github.com/lumora/lumora-unlock-service/pkg/fingerprint"

type ClaimInput struct {
	Code             string
	SubjectSessionID string
	Signals          fingerprint.Signals
}
