// Package domain holds the typed identifiers shared across the service.
//
// Each identity is a distinct named type over uuid.UUID so the compiler
// rejects cross-assignment (an ExeatID can never be passed where a
// StudentID is expected). Parse helpers enforce the invariant that IDs are
// valid, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "unipass/pkg/domain-errors"
)

type (
	// ExeatID identifies one exit-permit request.
	ExeatID uuid.UUID
	// StudentID identifies the student owning an exeat.
	StudentID uuid.UUID
	// StaffID identifies a security or administrative staff member.
	StaffID uuid.UUID
	// PenaltyID identifies a penalty record.
	PenaltyID uuid.UUID
	// ActivityID identifies one recorded gate scan.
	ActivityID uuid.UUID
)

func (id ExeatID) String() string    { return uuid.UUID(id).String() }
func (id StudentID) String() string  { return uuid.UUID(id).String() }
func (id StaffID) String() string    { return uuid.UUID(id).String() }
func (id PenaltyID) String() string  { return uuid.UUID(id).String() }
func (id ActivityID) String() string { return uuid.UUID(id).String() }

func (id ExeatID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id StudentID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

// NewExeatID mints a fresh exeat identity.
func NewExeatID() ExeatID { return ExeatID(uuid.New()) }

// NewPenaltyID mints a fresh penalty identity.
func NewPenaltyID() PenaltyID { return PenaltyID(uuid.New()) }

// NewActivityID mints a fresh gate-activity identity.
func NewActivityID() ActivityID { return ActivityID(uuid.New()) }

// ParseExeatID parses and validates an exeat ID from its string form.
func ParseExeatID(s string) (ExeatID, error) {
	parsed, err := parseUUID(s, "exeat id")
	return ExeatID(parsed), err
}

// ParseStudentID parses and validates a student ID from its string form.
func ParseStudentID(s string) (StudentID, error) {
	parsed, err := parseUUID(s, "student id")
	return StudentID(parsed), err
}

// ParseStaffID parses and validates a staff ID from its string form.
func ParseStaffID(s string) (StaffID, error) {
	parsed, err := parseUUID(s, "staff id")
	return StaffID(parsed), err
}

// ParsePenaltyID parses and validates a penalty ID from its string form.
func ParsePenaltyID(s string) (PenaltyID, error) {
	parsed, err := parseUUID(s, "penalty id")
	return PenaltyID(parsed), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return parsed, nil
}
