package exeat

import (
	"context"
	"time"

	"unipass/pkg/domain"
)

// Store abstracts exeat persistence. Implementations must make Transition an
// atomic compare-and-set on Status: the read of the current status and the
// conditional write happen as one step per entity, so a losing concurrent
// caller observes sentinel.ErrInvalidState rather than silently overwriting.
type Store interface {
	Create(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, id domain.ExeatID) (*Request, error)
	ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*Request, error)

	// Transition atomically moves the exeat from 'from' to 'to'. mutate, when
	// non-nil, is applied to the record inside the same atomic step (used to
	// persist the issued credential together with the approved status).
	// Returns the updated record, or sentinel.ErrInvalidState with no
	// mutation when the current status is not 'from'.
	Transition(ctx context.Context, id domain.ExeatID, from, to Status, mutate func(*Request)) (*Request, error)

	// ListApprovedReturnDue returns exeats still in approved status whose
	// return deadline is at or before the cutoff. Input to the overdue sweep.
	ListApprovedReturnDue(ctx context.Context, cutoff time.Time) ([]*Request, error)
}
