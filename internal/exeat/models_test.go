package exeat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPendingParentApproval, StatusPendingDeanApproval},
		{StatusPendingParentApproval, StatusDenied},
		{StatusPendingDeanApproval, StatusApproved},
		{StatusPendingDeanApproval, StatusDenied},
		{StatusApproved, StatusCompleted},
		{StatusApproved, StatusOverdue},
	}
	for _, edge := range legal {
		assert.True(t, CanTransition(edge.from, edge.to),
			"%s -> %s should be legal", edge.from, edge.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusPendingParentApproval, StatusApproved},
		{StatusPendingDeanApproval, StatusPendingParentApproval},
		{StatusApproved, StatusDenied},
		{StatusDenied, StatusApproved},
		{StatusCompleted, StatusOverdue},
		{StatusOverdue, StatusCompleted},
		{StatusOverdue, StatusApproved},
	}
	for _, edge := range illegal {
		assert.False(t, CanTransition(edge.from, edge.to),
			"%s -> %s should be illegal", edge.from, edge.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusDenied.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusOverdue.Terminal())
	assert.False(t, StatusPendingParentApproval.Terminal())
	assert.False(t, StatusPendingDeanApproval.Terminal())
	assert.False(t, StatusApproved.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusApproved.Valid())
	assert.False(t, Status("granted").Valid())
	assert.False(t, Status("").Valid())
}

func TestDerivedApprovalFlags(t *testing.T) {
	req := &Request{}
	assert.False(t, req.ParentApproved())
	assert.False(t, req.DeanApproved())
}
