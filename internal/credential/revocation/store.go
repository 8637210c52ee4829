// Package revocation tracks credentials whose exeat reached a terminal
// state. The gate verifier consults it before touching exeat state, so a
// completed or overdue credential is rejected without a transition attempt.
// Entries carry a TTL: past the return deadline the token is logically
// expired anyway and the entry can lapse.
package revocation

import (
	"context"
	"time"
)

// Store is the revocation list seam. Implementations must be safe for
// concurrent use by multiple gate terminals.
type Store interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
