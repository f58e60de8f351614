package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecentLinkStore keeps the last smartlinks shown per (session, content) in a
// capped Redis list. Entries expire on their own, so an abandoned session
// leaves nothing behind.
type RecentLinkStore struct {
	client *redis.Client
	maxLen int64
	ttl    time.Duration
}

func NewRecentLinkStore(client *redis.Client, window int, ttl time.Duration) *RecentLinkStore {
	return &RecentLinkStore{
		client: client,
		maxLen: int64(window),
		ttl:    ttl,
	}
}

func recentKey(sessionID, contentID string) string {
	return fmt.Sprintf("unlock:recent:%s:%s", sessionID, contentID)
}

func (s *RecentLinkStore) Push(ctx context.Context, sessionID, contentID, smartlinkID string) error {
	key := recentKey(sessionID, contentID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, smartlinkID)
	pipe.LTrim(ctx, key, 0, s.maxLen-1)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RecentLinkStore) Recent(ctx context.Context, sessionID, contentID string, n int) ([]string, error) {
	ids, err := s.client.LRange(ctx, recentKey(sessionID, contentID), 0, int64(n)-1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return ids, err
}
