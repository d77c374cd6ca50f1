package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"trustgate/internal/platform/config"
	"trustgate/internal/platform/kafka"
	audit "trustgate/pkg/platform/audit"
	kafkasink "trustgate/pkg/platform/audit/store/kafka"
	"trustgate/pkg/platform/audit/store/memory"
	auditpostgres "trustgate/pkg/platform/audit/store/postgres"
	"trustgate/pkg/platform/audit/worker"
)

// auditStack is where audit events go. With a database, events land in the
// outbox inside the decision transaction and relay drains them to Kafka.
// Without one, events go straight to Kafka, or to memory in development.
type auditStack struct {
	store    audit.Store
	relay    *worker.Worker
	producer *kgo.Client
}

func newAuditStack(ctx context.Context, cfg config.Config, db *sql.DB, log *slog.Logger) (*auditStack, error) {
	producer, err := kafka.New(ctx, cfg.Kafka, func(ctx context.Context, adm *kadm.Client) error {
		return kafkasink.EnsureTopic(ctx, adm, cfg.Kafka.AuditTopic, cfg.Kafka.TopicPartitions, cfg.Kafka.ReplicationFactor)
	})
	if err != nil {
		return nil, err
	}

	stack := &auditStack{producer: producer}
	switch {
	case db != nil:
		outbox := auditpostgres.New(db)
		if err := outbox.EnsureSchema(ctx); err != nil {
			stack.Close()
			return nil, err
		}
		stack.store = outbox
		if producer != nil {
			stack.relay = worker.NewWorker(outbox, kafkasink.New(producer, cfg.Kafka.AuditTopic), log,
				worker.WithInterval(cfg.Kafka.RelayInterval),
			)
		} else {
			log.Warn("kafka not configured; audit events stay in the outbox")
		}
	case producer != nil:
		stack.store = kafkasink.New(producer, cfg.Kafka.AuditTopic)
	default:
		log.Warn("audit events are kept in memory only")
		stack.store = memory.NewInMemoryStore()
	}
	return stack, nil
}

func (s *auditStack) Close() {
	if s.producer != nil {
		s.producer.Close()
	}
}
