// Package kafka builds the franz-go client used by the audit relay.
package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"trustgate/internal/platform/config"
)

// New connects a producer and makes sure the audit topic exists. Returns nil
// if no brokers are configured.
func New(ctx context.Context, cfg config.KafkaConfig, ensure func(context.Context, *kadm.Client) error) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	if ensure != nil {
		if err := ensure(ctx, kadm.NewClient(client)); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}
