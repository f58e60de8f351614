package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	publisher "github.com/lumora/lumora-unlock-service/internal/infrastructure/kafka"
	auditlogger "github.com/lumora/lumora-unlock-service/internal/infrastructure/logger"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/metrics"
)

// Prometheus collectors register globally, so every test shares one instance.
var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.UnlockMetrics
)

func sharedMetrics() *metrics.UnlockMetrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewUnlockMetrics()
	})
	return testMetrics
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.UnlockSession
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.UnlockSession)}
}

func (f *fakeSessionRepo) GetOrCreateSession(ctx context.Context, subjectID, contentID string, adsRequired int32) (*domain.UnlockSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := subjectID + "|" + contentID
	if s, ok := f.sessions[key]; ok {
		copied := *s
		return &copied, nil
	}
	f.nextID++
	s := &domain.UnlockSession{
		ID:          fmt.Sprintf("session-%d", f.nextID),
		SubjectID:   subjectID,
		ContentID:   contentID,
		AdsRequired: adsRequired,
	}
	f.sessions[key] = s
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) GetSessionByID(ctx context.Context, sessionID string) (*domain.UnlockSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == sessionID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) byID(sessionID string) *domain.UnlockSession {
	for _, s := range f.sessions {
		if s.ID == sessionID {
			return s
		}
	}
	return nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts map[string]*domain.AdAttempt
	sessions *fakeSessionRepo
}

func newFakeAttemptRepo(sessions *fakeSessionRepo) *fakeAttemptRepo {
	return &fakeAttemptRepo{
		attempts: make(map[string]*domain.AdAttempt),
		sessions: sessions,
	}
}

func (f *fakeAttemptRepo) CreateAttempt(ctx context.Context, attempt *domain.AdAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *attempt
	f.attempts[attempt.Token] = &copied
	return nil
}

func (f *fakeAttemptRepo) GetAttemptByToken(ctx context.Context, token string) (*domain.AdAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAttemptRepo) LastCompletedAttempt(ctx context.Context, sessionID, contentID string) (*domain.AdAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *domain.AdAttempt
	for _, a := range f.attempts {
		if a.SessionID != sessionID || a.ContentID != contentID || a.CompletedAt == nil {
			continue
		}
		if last == nil || a.CompletedAt.After(*last.CompletedAt) {
			last = a
		}
	}
	if last == nil {
		return nil, nil
	}
	copied := *last
	return &copied, nil
}

func (f *fakeAttemptRepo) CompleteAttempt(ctx context.Context, token string, completedAt time.Time) (*domain.UnlockSession, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions.mu.Lock()
	defer f.sessions.mu.Unlock()

	a, ok := f.attempts[token]
	if !ok {
		return nil, false, domain.ErrInvalidToken
	}
	if a.Used {
		return nil, false, domain.ErrTokenUsed
	}
	a.Used = true
	a.CompletedAt = &completedAt

	session := f.sessions.byID(a.SessionID)
	if session == nil {
		return nil, false, domain.ErrSessionNotFound
	}
	unlocked := false
	if session.AdsWatched < session.AdsRequired {
		session.AdsWatched++
		if session.AdsWatched == session.AdsRequired && !session.Completed {
			session.Completed = true
			unlocked = true
		}
	}
	copied := *session
	return &copied, unlocked, nil
}

type fakeSmartlinkRepo struct {
	links []*domain.Smartlink
}

func (f *fakeSmartlinkRepo) ListActive(ctx context.Context) ([]*domain.Smartlink, error) {
	var active []*domain.Smartlink
	for _, l := range f.links {
		if l.IsActive {
			active = append(active, l)
		}
	}
	return active, nil
}

func (f *fakeSmartlinkRepo) CountActive(ctx context.Context) (int64, error) {
	active, _ := f.ListActive(ctx)
	return int64(len(active)), nil
}

type fakeContentRepo struct {
	mu       sync.Mutex
	contents map[string]*domain.Content
	unlocks  map[string]int
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		contents: make(map[string]*domain.Content),
		unlocks:  make(map[string]int),
	}
}

func (f *fakeContentRepo) GetContent(ctx context.Context, contentID string) (*domain.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contents[contentID]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeContentRepo) IncrementUnlocks(ctx context.Context, contentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocks[contentID]++
	return nil
}

type fakeSettingsRepo struct {
	fallbackURL string
	defaultAds  int32
}

func (f *fakeSettingsRepo) FallbackSmartlinkURL(ctx context.Context) (string, error) {
	return f.fallbackURL, nil
}

func (f *fakeSettingsRepo) DefaultAdsRequired(ctx context.Context) (int32, error) {
	return f.defaultAds, nil
}

type fakeLedgerRepo struct {
	mu           sync.Mutex
	balances     map[string]*domain.RewardBalance
	transactions []*domain.RewardTransaction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{balances: make(map[string]*domain.RewardBalance)}
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, subjectID string) (*domain.RewardBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[subjectID]; ok {
		copied := *b
		return &copied, nil
	}
	return &domain.RewardBalance{SubjectID: subjectID}, nil
}

func (f *fakeLedgerRepo) Mutate(ctx context.Context, subjectID string, fn domain.LedgerMutation) (*domain.RewardBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[subjectID]
	if !ok {
		b = &domain.RewardBalance{SubjectID: subjectID}
	}
	working := *b
	record, err := fn(&working)
	if err != nil {
		return nil, err
	}
	f.balances[subjectID] = &working
	record.ID = fmt.Sprintf("tx-%d", len(f.transactions)+1)
	record.CreatedAt = time.Now()
	f.transactions = append(f.transactions, record)
	copied := working
	return &copied, nil
}

func (f *fakeLedgerRepo) ListTransactions(ctx context.Context, subjectID string, limit, offset int) ([]*domain.RewardTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.RewardTransaction
	for _, tx := range f.transactions {
		if tx.SubjectID == subjectID {
			out = append(out, tx)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeFraudRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.FraudProfile // by fingerprint
}

func newFakeFraudRepo() *fakeFraudRepo {
	return &fakeFraudRepo{profiles: make(map[string]*domain.FraudProfile)}
}

func (f *fakeFraudRepo) GetOrCreateProfile(ctx context.Context, fingerprint, sessionID string) (*domain.FraudProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[fingerprint]
	if !ok {
		p = &domain.FraudProfile{
			DeviceFingerprint: fingerprint,
			FirstSeenAt:       time.Now(),
		}
		f.profiles[fingerprint] = p
	}
	p.SessionID = sessionID
	copied := *p
	copied.ClaimedReferralCodes = append([]string(nil), p.ClaimedReferralCodes...)
	return &copied, nil
}

func (f *fakeFraudRepo) GetProfileBySession(ctx context.Context, sessionID string) (*domain.FraudProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.SessionID == sessionID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeFraudRepo) CountClaimedByFingerprint(ctx context.Context, fingerprint string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[fingerprint]; ok {
		return int64(len(p.ClaimedReferralCodes)), nil
	}
	return 0, nil
}

func (f *fakeFraudRepo) RecordClaim(ctx context.Context, fingerprint, code, referredBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[fingerprint]
	if !ok {
		return domain.ErrSessionNotFound
	}
	p.ClaimedReferralCodes = append(p.ClaimedReferralCodes, code)
	if p.ReferredBy == "" {
		p.ReferredBy = referredBy
	}
	return nil
}

func (f *fakeFraudRepo) AddActivity(ctx context.Context, fingerprint string, unlocks int32, timeSpentSeconds int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[fingerprint]
	if !ok {
		return nil
	}
	p.UnlockCount += unlocks
	p.TotalTimeSpentSeconds += timeSpentSeconds
	p.LastActivityAt = time.Now()
	return nil
}

type fakeRecentLinks struct {
	mu     sync.Mutex
	window int
	lists  map[string][]string
}

func newFakeRecentLinks(window int) *fakeRecentLinks {
	return &fakeRecentLinks{window: window, lists: make(map[string][]string)}
}

func (f *fakeRecentLinks) Push(ctx context.Context, sessionID, contentID, smartlinkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionID + "|" + contentID
	list := append([]string{smartlinkID}, f.lists[key]...)
	if len(list) > f.window {
		list = list[:f.window]
	}
	f.lists[key] = list
	return nil
}

func (f *fakeRecentLinks) Recent(ctx context.Context, sessionID, contentID string, n int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.lists[sessionID+"|"+contentID]
	if n < len(list) {
		list = list[:n]
	}
	return append([]string(nil), list...), nil
}

type fakePublisher struct {
	mu           sync.Mutex
	unlockEvents chan publisher.UnlockEvent
	abuseEvents  []publisher.ReferralAbuseEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{unlockEvents: make(chan publisher.UnlockEvent, 16)}
}

func (f *fakePublisher) PublishUnlock(event publisher.UnlockEvent) error {
	f.unlockEvents <- event
	return nil
}

func (f *fakePublisher) PublishReferralAbuse(event publisher.ReferralAbuseEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abuseEvents = append(f.abuseEvents, event)
	return nil
}

type fakePendingRepo struct {
	mu      sync.Mutex
	rewards []*domain.PendingReward
	nextID  int
}

func (f *fakePendingRepo) Enqueue(ctx context.Context, reward *domain.PendingReward) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	copied := *reward
	copied.ID = fmt.Sprintf("reward-%d", f.nextID)
	f.rewards = append(f.rewards, &copied)
	return nil
}

func (f *fakePendingRepo) ListUnrealized(ctx context.Context, referrerSubjectID string) ([]*domain.PendingReward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PendingReward
	for _, r := range f.rewards {
		if r.ReferrerSubjectID == referrerSubjectID && !r.Realized {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePendingRepo) Realize(ctx context.Context, reward *domain.PendingReward, realizedAt time.Time, maxAdsReduction int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rewards {
		if r.ID == reward.ID {
			if r.Realized {
				return false, nil
			}
			r.Realized = true
			r.RealizedAt = &realizedAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePendingRepo) CountUnrealized(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rewards {
		if !r.Realized {
			n++
		}
	}
	return n, nil
}

type fakeAuditLogger struct {
	mu     sync.Mutex
	events []auditlogger.ReferralAbuseEvent
}

func (f *fakeAuditLogger) LogRejectedClaim(ctx context.Context, event auditlogger.ReferralAbuseEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}
