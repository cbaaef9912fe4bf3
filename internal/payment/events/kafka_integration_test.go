//go:build integration

package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"biopay/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	const topic = "biopay.payments.test"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub, err := NewKafkaPublisher([]string{rp.Broker}, topic, logger)
	require.NoError(t, err)

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pub.Run(runCtx)
	}()
	t.Cleanup(func() {
		stop()
		<-done
	})

	txID := uuid.New()
	sent := Event{
		Action:        ActionFinalized,
		TransactionID: txID,
		UserID:        uuid.New(),
		Amount:        2050,
		Currency:      "USD",
		Timestamp:     time.Now().UTC().Truncate(time.Millisecond),
	}
	pub.Publish(context.Background(), sent)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var record *kgo.Record
	for record == nil {
		require.NoError(t, pollCtx.Err(), "no payment event arrived on the topic")
		fetches := consumer.PollFetches(pollCtx)
		iter := fetches.RecordIter()
		if !iter.Done() {
			record = iter.Next()
		}
	}

	// The transaction id keys the record so one transfer's events stay ordered
	// within a partition.
	assert.Equal(t, txID.String(), string(record.Key))

	var got Event
	require.NoError(t, json.Unmarshal(record.Value, &got))
	assert.Equal(t, sent.Action, got.Action)
	assert.Equal(t, sent.TransactionID, got.TransactionID)
	assert.Equal(t, sent.UserID, got.UserID)
	assert.Equal(t, sent.Amount, got.Amount)
	assert.Equal(t, sent.Currency, got.Currency)
}
