//go:build integration

package notification

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

	"unipass/pkg/domain"
	"unipass/pkg/testutil/containers"
)

func TestKafkaPublisher(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	topic := "unipass.events.test"

	publisher, err := NewKafkaPublisher(rp.Broker, topic, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer publisher.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	exeatID := domain.ExeatID(uuid.New())
	studentID := domain.StudentID(uuid.New())
	occurredAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	publisher.Emit(context.Background(), Event{
		Kind:       KindExeatApproved,
		ExeatID:    exeatID,
		StudentID:  studentID,
		OccurredAt: occurredAt,
		Detail:     map[string]string{"decided_by": "dean"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, exeatID.String(), string(record.Key))

	var decoded wireEvent
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, KindExeatApproved, decoded.Kind)
	assert.Equal(t, exeatID.String(), decoded.ExeatID)
	assert.Equal(t, studentID.String(), decoded.StudentID)
	assert.True(t, occurredAt.Equal(decoded.OccurredAt))
	assert.Equal(t, "dean", decoded.Detail["decided_by"])

	t.Run("events for one exeat share a partition key", func(t *testing.T) {
		publisher.Emit(context.Background(), Event{
			Kind:      KindExeatOverdue,
			ExeatID:   exeatID,
			StudentID: studentID,
		})

		fetches := consumer.PollFetches(ctx)
		require.NoError(t, fetches.Err())
		records := fetches.Records()
		require.Len(t, records, 1)
		assert.Equal(t, record.Partition, records[0].Partition)
		assert.Equal(t, string(record.Key), string(records[0].Key))
	})
}
