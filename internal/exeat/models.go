package exeat

import (
	"time"

	"unipass/pkg/domain"
)

// Status is the single authoritative lifecycle state of an exeat request.
// Approval booleans are derived from it, never stored independently.
type Status string

const (
	StatusPendingParentApproval Status = "pending_parent_approval"
	StatusPendingDeanApproval   Status = "pending_dean_approval"
	StatusApproved              Status = "approved"
	StatusDenied                Status = "denied"
	StatusCompleted             Status = "completed"
	StatusOverdue               Status = "overdue"
)

// legalEdges enumerates the transition graph. Anything not listed is an
// invalid transition regardless of caller.
var legalEdges = map[Status][]Status{
	StatusPendingParentApproval: {StatusPendingDeanApproval, StatusDenied},
	StatusPendingDeanApproval:   {StatusApproved, StatusDenied},
	StatusApproved:              {StatusCompleted, StatusOverdue},
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph.
func CanTransition(from, to Status) bool {
	for _, next := range legalEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition can leave the status.
func (s Status) Terminal() bool {
	return s == StatusDenied || s == StatusCompleted || s == StatusOverdue
}

// Valid reports whether s is one of the enumerated states.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingParentApproval, StatusPendingDeanApproval, StatusApproved,
		StatusDenied, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Request is one leave request. It is created by the owning student and
// mutated only through the Service's transition operations.
type Request struct {
	ID            domain.ExeatID
	StudentID     domain.StudentID
	StudentName   string
	MatricNumber  string
	Reason        string
	DepartureAt   time.Time
	ReturnAt      time.Time
	ParentContact string
	Status        Status

	// Decision timestamps, set exactly when the corresponding approval edge
	// is taken. Nil means that stage has not approved.
	ParentApprovedAt *time.Time
	DeanApprovedAt   *time.Time

	// CredentialToken is the signed credential, set exactly once on the
	// transition into approved.
	CredentialToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParentApproved derives the legacy parent-approval flag from state.
func (r *Request) ParentApproved() bool { return r.ParentApprovedAt != nil }

// DeanApproved derives the legacy dean-approval flag from state.
func (r *Request) DeanApproved() bool { return r.DeanApprovedAt != nil }
