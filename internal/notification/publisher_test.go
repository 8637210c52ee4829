package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unipass/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSink struct {
	mu        sync.Mutex
	delivered []Event
	err       error
}

func (s *recordingSink) Deliver(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, event)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func TestChannelPublisherDeliversThroughWorker(t *testing.T) {
	publisher := NewChannelPublisher(8, testLogger())
	sink := &recordingSink{}
	worker := NewWorker(sink, publisher.Inbox(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	publisher.Emit(ctx, Event{Kind: KindExeatCreated, ExeatID: domain.NewExeatID()})
	publisher.Emit(ctx, Event{Kind: KindExeatApproved, ExeatID: domain.NewExeatID()})

	require.Eventually(t, func() bool { return sink.count() == 2 },
		2*time.Second, 10*time.Millisecond)
}

func TestChannelPublisherStampsOccurredAt(t *testing.T) {
	publisher := NewChannelPublisher(1, testLogger())
	publisher.Emit(context.Background(), Event{Kind: KindExeatCreated})

	event := <-publisher.Inbox()
	assert.False(t, event.OccurredAt.IsZero())
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	publisher := NewChannelPublisher(1, testLogger())

	// No consumer: the second event must be dropped, not block the caller.
	done := make(chan struct{})
	go func() {
		publisher.Emit(context.Background(), Event{Kind: KindExeatCreated})
		publisher.Emit(context.Background(), Event{Kind: KindExeatApproved})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full buffer")
	}
	assert.Len(t, publisher.Inbox(), 1)
}

func TestWorkerSurvivesDeliveryFailure(t *testing.T) {
	publisher := NewChannelPublisher(8, testLogger())
	sink := &recordingSink{err: errors.New("smtp down")}
	worker := NewWorker(sink, publisher.Inbox(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	publisher.Emit(ctx, Event{Kind: KindExeatDenied, ExeatID: domain.NewExeatID()})

	// Failure is logged and dropped; the worker keeps running until cancel.
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Zero(t, sink.count())
}

func TestDiscardEmitter(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard{}.Emit(context.Background(), Event{Kind: KindPenaltyCreated})
	})
}
