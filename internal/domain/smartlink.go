package domain

import "context"

// Smartlink is an operator-configured ad endpoint. Rows are managed by the
// admin collaborator; the core only reads them.
type Smartlink struct {
	ID       string
	URL      string
	Weight   int32
	IsActive bool
}

type SmartlinkRepository interface {
	ListActive(ctx context.Context) ([]*Smartlink, error)
	CountActive(ctx context.Context) (int64, error)
}

// RecentLinkStore remembers the last smartlinks shown to a session for a
// content item, backing the anti-repeat window.
type RecentLinkStore interface {
	Push(ctx context.Context, sessionID, contentID, smartlinkID string) error
	Recent(ctx context.Context, sessionID, contentID string, n int) ([]string, error)
}
