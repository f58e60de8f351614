package domain

import (
	"context"
	"time"
)

// UnlockSession tracks one (subject, content) pair's progress towards an unlock.
// adsWatched never exceeds adsRequired and completed flips false->true exactly once.
type UnlockSession struct {
	ID         string
	SubjectID  string
	ContentID  string
	AdsRequired int32
	AdsWatched  int32
	Completed   bool
	UpdatedAt   time.Time
}

type SessionRepository interface {
	GetOrCreateSession(ctx context.Context, subjectID, contentID string, adsRequired int32) (*UnlockSession, error)
	GetSessionByID(ctx context.Context, sessionID string) (*UnlockSession, error)
}
