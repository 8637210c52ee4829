package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without
// inspecting strings.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrInvalidState: entity was not in the expected state for a conditional
//   write (the compare in compare-and-set failed)
// - ErrDuplicate: a uniqueness constraint suppressed the write
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrDuplicate    = errors.New("duplicate")
	ErrUnavailable  = errors.New("unavailable")
)
