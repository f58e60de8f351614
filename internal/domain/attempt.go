package domain

import (
	"context"
	"time"
)

// AdAttempt is a single issued proof-of-watch token. Expiry is never stored:
// it is always computed from StartedAt at read time.
type AdAttempt struct {
	Token       string
	SessionID   string
	ContentID   string
	SubjectID   string
	SmartlinkID string
	StartedAt   time.Time
	CompletedAt *time.Time
	Used        bool
}

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *AdAttempt) error
	GetAttemptByToken(ctx context.Context, token string) (*AdAttempt, error)
	// LastCompletedAttempt returns the most recent completed attempt for the
	// (session, content) pair, or nil when none exists.
	LastCompletedAttempt(ctx context.Context, sessionID, contentID string) (*AdAttempt, error)
	// CompleteAttempt atomically marks the attempt used, stamps completedAt and
	// increments the session's adsWatched by one. The repository must guarantee
	// that two racing calls on the same token yield exactly one success: the
	// loser gets ErrTokenUsed. Returns the updated session and whether this
	// call flipped the session to completed.
	CompleteAttempt(ctx context.Context, token string, completedAt time.Time) (*UnlockSession, bool, error)
}
