package gate

import (
	"context"

	"unipass/pkg/domain"
)

// Store persists gate activity. Append-only: activities are never mutated or
// deleted once recorded.
type Store interface {
	Record(ctx context.Context, activity *Activity) error
	ListByExeat(ctx context.Context, exeatID domain.ExeatID) ([]*Activity, error)

	// LastMovement returns the most recent activity for the exeat whose
	// result was not invalid. Invalid attempts are audit noise and do not
	// participate in the exit/entry alternation. Returns sentinel.ErrNotFound
	// when the exeat has no effective movement yet.
	LastMovement(ctx context.Context, exeatID domain.ExeatID) (*Activity, error)
}
