package exeat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"unipass/internal/credential"
	"unipass/internal/notification"
	"unipass/internal/platform/metrics"
	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/platform/sentinel"
	"unipass/pkg/requestcontext"
)

// Issuer is the credential codec seam the state machine needs.
type Issuer interface {
	Issue(exeatID domain.ExeatID, subject credential.Subject, window credential.Window, issuedAt time.Time) (string, error)
}

// Service owns every status transition of an exeat request. All writes go
// through the store's compare-and-set Transition, so a caller racing another
// approver loses cleanly with CodeInvalidTransition and the record is never
// silently overwritten.
type Service struct {
	store   Store
	issuer  Issuer
	events  notification.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store Store, issuer Issuer, events notification.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	if events == nil {
		events = notification.Discard{}
	}
	return &Service{store: store, issuer: issuer, events: events, metrics: m, logger: logger}
}

// NewRequest is the creation input.
type NewRequest struct {
	StudentID     domain.StudentID
	StudentName   string
	MatricNumber  string
	Reason        string
	DepartureAt   time.Time
	ReturnAt      time.Time
	ParentContact string
}

// Create validates the travel window and persists a request in
// pending_parent_approval.
func (s *Service) Create(ctx context.Context, in NewRequest) (*Request, error) {
	if in.StudentID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "student id is required")
	}
	if in.Reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reason is required")
	}
	if !in.DepartureAt.Before(in.ReturnAt) {
		return nil, dErrors.New(dErrors.CodeInvalidWindow, "departure must be before return")
	}

	now := requestcontext.Now(ctx)
	req := &Request{
		ID:            domain.NewExeatID(),
		StudentID:     in.StudentID,
		StudentName:   in.StudentName,
		MatricNumber:  in.MatricNumber,
		Reason:        in.Reason,
		DepartureAt:   in.DepartureAt,
		ReturnAt:      in.ReturnAt,
		ParentContact: in.ParentContact,
		Status:        StatusPendingParentApproval,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "create exeat", err)
	}

	s.metrics.IncExeatsCreated()
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindExeatCreated,
		ExeatID:    req.ID,
		StudentID:  req.StudentID,
		OccurredAt: now,
	})
	return req, nil
}

// Get fetches one request.
func (s *Service) Get(ctx context.Context, id domain.ExeatID) (*Request, error) {
	req, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "exeat not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "find exeat", err)
	}
	return req, nil
}

// ListByStudent returns the student's own requests.
func (s *Service) ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*Request, error) {
	return s.store.ListByStudent(ctx, studentID)
}

// DecideParent applies the parent's decision. Legal only while the request
// is pending_parent_approval.
func (s *Service) DecideParent(ctx context.Context, id domain.ExeatID, approve bool) (*Request, error) {
	now := requestcontext.Now(ctx)
	if approve {
		updated, err := s.store.Transition(ctx, id, StatusPendingParentApproval, StatusPendingDeanApproval, func(r *Request) {
			t := now
			r.ParentApprovedAt = &t
		})
		if err != nil {
			return s.rejectTransition(ctx, id, "parent", err)
		}
		s.metrics.IncDecision("parent", "approved")
		return updated, nil
	}

	updated, err := s.store.Transition(ctx, id, StatusPendingParentApproval, StatusDenied, nil)
	if err != nil {
		return s.rejectTransition(ctx, id, "parent", err)
	}
	s.metrics.IncDecision("parent", "denied")
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindExeatDenied,
		ExeatID:    updated.ID,
		StudentID:  updated.StudentID,
		OccurredAt: now,
		Detail:     map[string]string{"stage": "parent"},
	})
	return updated, nil
}

// DecideDean applies the dean's decision. Legal only while the request is
// pending_dean_approval. Approval issues the credential synchronously: the
// token is computed first and persisted inside the same atomic transition
// that flips the status, so only the winning transition's token is ever
// stored.
func (s *Service) DecideDean(ctx context.Context, id domain.ExeatID, approve bool) (*Request, error) {
	now := requestcontext.Now(ctx)
	if !approve {
		updated, err := s.store.Transition(ctx, id, StatusPendingDeanApproval, StatusDenied, nil)
		if err != nil {
			return s.rejectTransition(ctx, id, "dean", err)
		}
		s.metrics.IncDecision("dean", "denied")
		s.events.Emit(ctx, notification.Event{
			Kind:       notification.KindExeatDenied,
			ExeatID:    updated.ID,
			StudentID:  updated.StudentID,
			OccurredAt: now,
			Detail:     map[string]string{"stage": "dean"},
		})
		return updated, nil
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(current.ID,
		credential.Subject{
			StudentID:    current.StudentID,
			Name:         current.StudentName,
			MatricNumber: current.MatricNumber,
		},
		credential.Window{DepartureAt: current.DepartureAt, ReturnAt: current.ReturnAt},
		now,
	)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "issue credential", err)
	}

	updated, err := s.store.Transition(ctx, id, StatusPendingDeanApproval, StatusApproved, func(r *Request) {
		t := now
		r.DeanApprovedAt = &t
		r.CredentialToken = token
	})
	if err != nil {
		// The token was never persisted; the loser of the race discards it.
		return s.rejectTransition(ctx, id, "dean", err)
	}

	s.metrics.IncDecision("dean", "approved")
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindExeatApproved,
		ExeatID:    updated.ID,
		StudentID:  updated.StudentID,
		OccurredAt: now,
	})
	return updated, nil
}

// MarkCompleted records a timely return. Called by the gate verifier inside
// its scan sequence.
func (s *Service) MarkCompleted(ctx context.Context, id domain.ExeatID) (*Request, error) {
	updated, err := s.store.Transition(ctx, id, StatusApproved, StatusCompleted, nil)
	if err != nil {
		return s.rejectTransition(ctx, id, "gate", err)
	}
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindExeatCompleted,
		ExeatID:    updated.ID,
		StudentID:  updated.StudentID,
		OccurredAt: requestcontext.Now(ctx),
		Detail:     map[string]string{"closure": "returned"},
	})
	return updated, nil
}

// CloseUnused retires an approved exeat whose pass was never used at a gate.
// Called by the overdue sweep; downstream consumers can tell this closure
// apart from a real return by the closure detail.
func (s *Service) CloseUnused(ctx context.Context, id domain.ExeatID) (*Request, error) {
	updated, err := s.store.Transition(ctx, id, StatusApproved, StatusCompleted, nil)
	if err != nil {
		return s.rejectTransition(ctx, id, "sweep", err)
	}
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindExeatCompleted,
		ExeatID:    updated.ID,
		StudentID:  updated.StudentID,
		OccurredAt: requestcontext.Now(ctx),
		Detail:     map[string]string{"closure": "never_departed"},
	})
	return updated, nil
}

// MarkOverdue flips an approved exeat to overdue. Called by both the gate
// verifier (late entry scan) and the overdue sweep; whichever acts first
// wins, the other loses the compare-and-set and is a no-op.
func (s *Service) MarkOverdue(ctx context.Context, id domain.ExeatID) (*Request, error) {
	updated, err := s.store.Transition(ctx, id, StatusApproved, StatusOverdue, nil)
	if err != nil {
		return s.rejectTransition(ctx, id, "overdue", err)
	}
	s.events.Emit(ctx, notification.Event{
		Kind:       notification.KindExeatOverdue,
		ExeatID:    updated.ID,
		StudentID:  updated.StudentID,
		OccurredAt: requestcontext.Now(ctx),
	})
	return updated, nil
}

// ListApprovedReturnDue exposes the sweep input.
func (s *Service) ListApprovedReturnDue(ctx context.Context, cutoff time.Time) ([]*Request, error) {
	return s.store.ListApprovedReturnDue(ctx, cutoff)
}

// rejectTransition translates store sentinels into domain errors. A lost
// race or an off-graph attempt returns the current, unchanged state to the
// caller alongside CodeInvalidTransition.
func (s *Service) rejectTransition(ctx context.Context, id domain.ExeatID, stage string, err error) (*Request, error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeNotFound, "exeat not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		s.metrics.IncDecision(stage, "rejected_transition")
		current, findErr := s.store.FindByID(ctx, id)
		if findErr != nil {
			return nil, dErrors.New(dErrors.CodeInvalidTransition, "exeat is not in the required state")
		}
		return current, dErrors.New(dErrors.CodeInvalidTransition,
			"exeat is in status "+string(current.Status))
	default:
		return nil, dErrors.Wrap(dErrors.CodeInternal, "transition exeat", err)
	}
}
