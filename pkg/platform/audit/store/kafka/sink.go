// Package kafka relays audit events to a Kafka topic.
//
// Sink implements audit.Store for deployments without a database, and
// Publish for the outbox relay. Records are keyed by applicant so every event
// for one applicant lands on the same partition in order.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	audit "trustgate/pkg/platform/audit"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic receives every audit event.
const DefaultTopic = "trustgate.audit"

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink publishes audit events synchronously.
type Sink struct {
	producer Producer
	topic    string
	now      func() time.Time
}

// New creates a sink writing to topic (DefaultTopic when empty).
func New(producer Producer, topic string) *Sink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Sink{producer: producer, topic: topic, now: time.Now}
}

// Append serializes and publishes one event.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	entry, err := audit.NewOutboxEntry(event, s.now())
	if err != nil {
		return err
	}
	return s.Publish(ctx, []audit.OutboxEntry{entry})
}

// Publish produces entries and waits for every acknowledgement.
func (s *Sink) Publish(ctx context.Context, entries []audit.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]*kgo.Record, len(entries))
	for i, e := range entries {
		records[i] = &kgo.Record{
			Topic: s.topic,
			Key:   []byte(e.Key),
			Value: e.Payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(e.EventType)},
				{Key: "event_id", Value: []byte(e.ID.String())},
			},
		}
	}
	if err := s.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce audit events: %w", err)
	}
	return nil
}

// EnsureTopic creates topic if it is missing. An existing topic is not an error.
func EnsureTopic(ctx context.Context, adm *kadm.Client, topic string, partitions int32, replication int16) error {
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}
