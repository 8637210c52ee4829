// Package notification carries the events the core emits toward the
// notification collaborator. Delivery is fire-and-forget: an emission
// failure is logged and dropped, never propagated back into a state
// transition.
package notification

import (
	"context"
	"time"

	"unipass/pkg/domain"
)

// Kind names one lifecycle event.
type Kind string

const (
	KindExeatCreated   Kind = "exeat.created"
	KindExeatApproved  Kind = "exeat.approved"
	KindExeatDenied    Kind = "exeat.denied"
	KindExeatCompleted Kind = "exeat.completed"
	KindExeatOverdue   Kind = "exeat.overdue"
	KindPenaltyCreated Kind = "penalty.created"
)

// Event is emitted from domain logic to capture key lifecycle moments. Keep
// it transport-agnostic so the channel worker and the Kafka publisher can
// share it.
type Event struct {
	Kind       Kind              `json:"kind"`
	ExeatID    domain.ExeatID    `json:"-"`
	StudentID  domain.StudentID  `json:"-"`
	OccurredAt time.Time         `json:"occurred_at"`
	Detail     map[string]string `json:"detail,omitempty"`
}

// wireEvent is the serialized shape; IDs go out as strings.
type wireEvent struct {
	Kind       Kind              `json:"kind"`
	ExeatID    string            `json:"exeat_id"`
	StudentID  string            `json:"student_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Detail     map[string]string `json:"detail,omitempty"`
}

// Emitter is the seam domain services publish through.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// Discard is an Emitter that drops everything. Default for unit tests.
type Discard struct{}

func (Discard) Emit(context.Context, Event) {}
