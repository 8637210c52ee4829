package penalty

import (
	"time"

	"unipass/pkg/domain"
)

// Cause names the rule violation a penalty punishes.
type Cause string

const (
	CauseOverdue          Cause = "overdue"
	CauseUnauthorizedExit Cause = "unauthorized_exit"
)

// Status tracks settlement. The core only ever creates pending penalties;
// the payment collaborator flips them to paid.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Penalty is one financial consequence. At most one penalty exists per
// (exeat, cause) pair; creation is idempotent.
type Penalty struct {
	ID        domain.PenaltyID
	StudentID domain.StudentID
	ExeatID   domain.ExeatID
	Cause     Cause
	// Amount in minor currency units.
	Amount    int64
	Status    Status
	CreatedAt time.Time
	PaidAt    *time.Time
}
