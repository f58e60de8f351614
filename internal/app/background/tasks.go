package background

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	publisher "github.com/lumora/lumora-unlock-service/internal/infrastructure/kafka"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/metrics"
)

type BackgroundTasks struct {
	SmartlinkRepo domain.SmartlinkRepository
	PendingRepo   domain.PendingRewardRepository
	ContentRepo   domain.ContentRepository
	Subscriber    domain.SubscriberPort
	Metrics       *metrics.UnlockMetrics
}

func NewBackgroundTasks(
	smartlinkRepo domain.SmartlinkRepository,
	pendingRepo domain.PendingRewardRepository,
	contentRepo domain.ContentRepository,
	subscriber domain.SubscriberPort,
	unlockMetrics *metrics.UnlockMetrics) *BackgroundTasks {

	return &BackgroundTasks{
		SmartlinkRepo: smartlinkRepo,
		PendingRepo:   pendingRepo,
		ContentRepo:   contentRepo,
		Subscriber:    subscriber,
		Metrics:       unlockMetrics,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startGaugeRefresh(ctx)
	go bt.startUnlockCounter(ctx)
}

func (bt *BackgroundTasks) startGaugeRefresh(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if backlog, err := bt.PendingRepo.CountUnrealized(ctx); err != nil {
				log.Printf("Pending rewards backlog refresh error: %v\n", err)
			} else {
				bt.Metrics.PendingRewardsBacklog.Set(float64(backlog))
			}

			if active, err := bt.SmartlinkRepo.CountActive(ctx); err != nil {
				log.Printf("Active smartlinks refresh error: %v\n", err)
			} else {
				bt.Metrics.ActiveSmartlinks.Set(float64(active))
			}
		}
	}
}

// startUnlockCounter consumes unlock events and bumps the per-content unlock
// counter. Keeping the counter off the request path means a slow or down
// broker never blocks a completion.
func (bt *BackgroundTasks) startUnlockCounter(ctx context.Context) {
	messages, err := bt.Subscriber.Subscribe(publisher.TopicUnlockEvents, "unlock-service-counters")
	if err != nil {
		log.Printf("Unlock events subscribe error: %v\n", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event publisher.UnlockEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("Unlock event decode error: %v\n", err)
				continue
			}
			if err := bt.ContentRepo.IncrementUnlocks(ctx, event.ContentID); err != nil {
				log.Printf("Unlock counter increment error: %v\n", err)
			}
		}
	}
}
