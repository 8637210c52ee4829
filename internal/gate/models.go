package gate

import (
	"time"

	"unipass/pkg/domain"
)

// ActivityType is the declared direction of a scan.
type ActivityType string

const (
	TypeExit  ActivityType = "exit"
	TypeEntry ActivityType = "entry"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool { return t == TypeExit || t == TypeEntry }

// Result is the verifier's judgment of one scan.
type Result string

const (
	ResultValid   Result = "valid"
	ResultInvalid Result = "invalid"
	ResultOverdue Result = "overdue"
)

// Activity is one recorded scan attempt. Every attempt is recorded,
// including invalid ones, so the gate log is a complete audit trail.
// Records are append-only.
type Activity struct {
	ID         domain.ActivityID
	ExeatID    domain.ExeatID // zero when the token did not decode
	StudentID  domain.StudentID
	StaffID    domain.StaffID
	Type       ActivityType
	RecordedAt time.Time
	Result     Result
	Note       string
}
