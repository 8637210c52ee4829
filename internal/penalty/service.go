package penalty

import (
	"context"
	"errors"
	"log/slog"

	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
	"unipass/pkg/requestcontext"

	"unipass/internal/notification"
	"unipass/internal/platform/metrics"
)

// Service creates and settles penalties. Trigger is idempotent per
// (exeat, cause); callers may fire it from both the gate verifier and the
// overdue sweep without coordinating.
type Service struct {
	store   Store
	policy  AmountPolicy
	events  notification.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store Store, policy AmountPolicy, events notification.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	if events == nil {
		events = notification.Discard{}
	}
	return &Service{
		store:   store,
		policy:  policy,
		events:  events,
		metrics: m,
		logger:  logger,
	}
}

// Trigger records a penalty against the student for the given exeat and
// cause. A duplicate trigger is a no-op and returns the existing penalty.
func (s *Service) Trigger(ctx context.Context, studentID domain.StudentID, exeatID domain.ExeatID, cause Cause) (*Penalty, error) {
	now := requestcontext.Now(ctx)
	p := &Penalty{
		ID:        domain.NewPenaltyID(),
		StudentID: studentID,
		ExeatID:   exeatID,
		Cause:     cause,
		Amount:    s.policy.Amount(cause),
		Status:    StatusPending,
		CreatedAt: now,
	}
	created, err := s.store.CreateIfAbsent(ctx, p)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "record penalty", err)
	}
	if !created {
		return s.existing(ctx, exeatID, cause)
	}

	s.metrics.IncPenalty(string(cause))
	s.logger.InfoContext(ctx, "penalty created",
		"penalty_id", p.ID, "exeat_id", exeatID, "cause", cause, "amount", p.Amount)
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindPenaltyCreated,
		ExeatID:    exeatID,
		StudentID:  studentID,
		OccurredAt: now,
		Detail: map[string]string{
			"penalty_id": p.ID.String(),
			"cause":      string(cause),
		},
	})
	return p, nil
}

func (s *Service) existing(ctx context.Context, exeatID domain.ExeatID, cause Cause) (*Penalty, error) {
	all, err := s.store.ListByExeat(ctx, exeatID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load penalty", err)
	}
	for _, p := range all {
		if p.Cause == cause {
			return p, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "penalty vanished after duplicate insert")
}

func (s *Service) Get(ctx context.Context, id domain.PenaltyID) (*Penalty, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "penalty not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load penalty", err)
	}
	return p, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*Penalty, error) {
	out, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list penalties", err)
	}
	return out, nil
}

func (s *Service) ListByExeat(ctx context.Context, exeatID domain.ExeatID) ([]*Penalty, error) {
	out, err := s.store.ListByExeat(ctx, exeatID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list penalties", err)
	}
	return out, nil
}

// MarkPaid settles a pending penalty.
func (s *Service) MarkPaid(ctx context.Context, id domain.PenaltyID) (*Penalty, error) {
	p, err := s.store.MarkPaid(ctx, id, requestcontext.Now(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "penalty not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeInvalidTransition, "penalty is already paid")
		default:
			return nil, dErrors.Wrap(dErrors.CodeInternal, "mark penalty paid", err)
		}
	}
	s.logger.InfoContext(ctx, "penalty paid", "penalty_id", id)
	return p, nil
}
