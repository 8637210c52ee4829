package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubjectRoundTrip(t *testing.T) {
	ctx := WithSubject(context.Background(), "subject-1", RoleDean)
	assert.Equal(t, "subject-1", SubjectID(ctx))
	assert.Equal(t, RoleDean, CallerRole(ctx))
}

func TestUnsetValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, SubjectID(ctx))
	assert.Empty(t, CallerRole(ctx))
	assert.Empty(t, RequestID(ctx))
}

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before.Add(-time.Second)))
}

func TestNowUsesInjectedTime(t *testing.T) {
	pinned := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), pinned)
	assert.Equal(t, pinned, Now(ctx))
}
