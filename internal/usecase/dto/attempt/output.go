package attemptdto

import (
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
)

type StartAttemptOutput struct {
	Token           string
	StartedAt       time.Time
	MinWatchSeconds int64
	SmartlinkURL    string
	SmartlinkID     string
}

type CompleteAttemptOutput struct {
	Session domain.UnlockSession
	// Unlocked is true only for the completion that flipped the session to
	// completed. UI/telemetry hint, nothing else keys off it.
	Unlocked bool
}
