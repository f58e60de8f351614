package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lumora/lumora-unlock-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	TopicUnlockEvents        = "unlock-events"
	TopicReferralAbuseEvents = "referral-abuse-events"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *DefaultKafkaPublisher) PublishUnlock(event UnlockEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.Publish(TopicUnlockEvents, domain.Message{Key: []byte(event.ContentID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishReferralAbuse(event ReferralAbuseEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.Publish(TopicReferralAbuseEvents, domain.Message{Key: []byte(event.DeviceFingerprint), Value: v})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
