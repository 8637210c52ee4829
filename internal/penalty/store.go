package penalty

import (
	"context"
	"time"

	"unipass/pkg/domain"
)

// Store persists penalties. CreateIfAbsent is the idempotency primitive: it
// must suppress a second penalty for the same (exeat, cause) atomically even
// under concurrent callers.
type Store interface {
	// CreateIfAbsent inserts the penalty unless one with the same exeat and
	// cause already exists (pending or paid). Reports whether the insert
	// happened.
	CreateIfAbsent(ctx context.Context, p *Penalty) (created bool, err error)

	FindByID(ctx context.Context, id domain.PenaltyID) (*Penalty, error)
	ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*Penalty, error)
	ListByExeat(ctx context.Context, exeatID domain.ExeatID) ([]*Penalty, error)

	// MarkPaid transitions pending -> paid. Returns sentinel.ErrInvalidState
	// when the penalty is already paid, sentinel.ErrNotFound when absent.
	MarkPaid(ctx context.Context, id domain.PenaltyID, at time.Time) (*Penalty, error)
}
