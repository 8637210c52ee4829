package penalty

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unipass/internal/notification"
	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type captureEmitter struct {
	mu     sync.Mutex
	events []notification.Event
}

func (c *captureEmitter) Emit(_ context.Context, event notification.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureEmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newTestService(emitter notification.Emitter) (*Service, *InMemoryStore) {
	store := NewInMemoryStore()
	svc := NewService(store, FlatPolicy{Overdue: 5000_00, UnauthorizedExit: 10000_00},
		emitter, nil, testLogger())
	return svc, store
}

func TestTriggerCreatesPendingPenalty(t *testing.T) {
	emitter := &captureEmitter{}
	svc, _ := newTestService(emitter)

	studentID := domain.StudentID(domain.NewExeatID())
	exeatID := domain.NewExeatID()
	now := time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	p, err := svc.Trigger(ctx, studentID, exeatID, CauseOverdue)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, int64(5000_00), p.Amount)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, 1, emitter.count())
}

func TestTriggerIsIdempotent(t *testing.T) {
	emitter := &captureEmitter{}
	svc, _ := newTestService(emitter)

	studentID := domain.StudentID(domain.NewExeatID())
	exeatID := domain.NewExeatID()

	first, err := svc.Trigger(context.Background(), studentID, exeatID, CauseOverdue)
	require.NoError(t, err)
	second, err := svc.Trigger(context.Background(), studentID, exeatID, CauseOverdue)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "duplicate trigger must return the existing penalty")
	assert.Equal(t, 1, emitter.count(), "duplicate trigger must not emit again")

	all, err := svc.ListByExeat(context.Background(), exeatID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTriggerDistinctCauses(t *testing.T) {
	svc, _ := newTestService(nil)
	studentID := domain.StudentID(domain.NewExeatID())
	exeatID := domain.NewExeatID()

	_, err := svc.Trigger(context.Background(), studentID, exeatID, CauseOverdue)
	require.NoError(t, err)
	unauthorized, err := svc.Trigger(context.Background(), studentID, exeatID, CauseUnauthorizedExit)
	require.NoError(t, err)
	assert.Equal(t, int64(10000_00), unauthorized.Amount)

	all, err := svc.ListByExeat(context.Background(), exeatID)
	require.NoError(t, err)
	assert.Len(t, all, 2, "one penalty per cause is allowed")
}

func TestTriggerConcurrent(t *testing.T) {
	svc, _ := newTestService(nil)
	studentID := domain.StudentID(domain.NewExeatID())
	exeatID := domain.NewExeatID()

	const attempts = 16
	var wg sync.WaitGroup
	wg.Add(attempts)
	for range attempts {
		go func() {
			defer wg.Done()
			_, err := svc.Trigger(context.Background(), studentID, exeatID, CauseOverdue)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := svc.ListByExeat(context.Background(), exeatID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMarkPaid(t *testing.T) {
	svc, _ := newTestService(nil)
	studentID := domain.StudentID(domain.NewExeatID())
	exeatID := domain.NewExeatID()

	created, err := svc.Trigger(context.Background(), studentID, exeatID, CauseOverdue)
	require.NoError(t, err)

	paidAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), paidAt)
	paid, err := svc.MarkPaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, paidAt, *paid.PaidAt)

	_, err = svc.MarkPaid(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func TestMarkPaidMissing(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.MarkPaid(context.Background(), domain.NewPenaltyID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetAndList(t *testing.T) {
	svc, _ := newTestService(nil)
	studentID := domain.StudentID(domain.NewExeatID())

	created, err := svc.Trigger(context.Background(), studentID, domain.NewExeatID(), CauseOverdue)
	require.NoError(t, err)

	found, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.Get(context.Background(), domain.NewPenaltyID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	byStudent, err := svc.ListByStudent(context.Background(), studentID)
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)
}
