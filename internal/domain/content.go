package domain

import "context"

type ContentStatus string

const (
	ContentPublished ContentStatus = "PUBLISHED"
	ContentDraft     ContentStatus = "DRAFT"
	ContentArchived  ContentStatus = "ARCHIVED"
)

// Content is the narrow view of the admin-managed content store the core
// needs: how many ads an item demands and whether it is live.
type Content struct {
	ID          string
	AdsRequired int32 // 0 means use the operator default
	Status      ContentStatus
	UnlockCount int64
}

type ContentRepository interface {
	GetContent(ctx context.Context, contentID string) (*Content, error)
	IncrementUnlocks(ctx context.Context, contentID string) error
}

// SettingsRepository exposes the operator-configured fallbacks.
type SettingsRepository interface {
	FallbackSmartlinkURL(ctx context.Context) (string, error)
	DefaultAdsRequired(ctx context.Context) (int32, error)
}
