package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher buffers events on a channel and produces them to a topic
// from a single background worker.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
	inbox  chan Event
}

// NewKafkaPublisher connects to the given brokers. Run must be started for
// events to flow.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{
		client: client,
		topic:  topic,
		logger: logger,
		inbox:  make(chan Event, 256),
	}, nil
}

// Publish enqueues the event, dropping it if the buffer is full so the
// payment pipeline never waits on the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "event buffer full, dropping payment event",
			"action", event.Action,
			"transaction_id", event.TransactionID,
		)
	}
}

// Run drains the inbox until ctx is cancelled.
func (p *KafkaPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.client.Close()
			return ctx.Err()
		case event := <-p.inbox:
			p.produce(ctx, event)
		}
	}
}

func (p *KafkaPublisher) produce(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal payment event", "error", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.TransactionID.String()),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.ErrorContext(ctx, "produce payment event",
				"error", err,
				"action", event.Action,
				"transaction_id", event.TransactionID,
			)
		}
	})
}
