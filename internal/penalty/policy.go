package penalty

// AmountPolicy computes the amount for a new penalty. Pluggable so the fee
// schedule lives in configuration, not in the trigger.
type AmountPolicy interface {
	Amount(cause Cause) int64
}

// FlatPolicy charges a fixed amount per cause.
type FlatPolicy struct {
	Overdue          int64
	UnauthorizedExit int64
}

func (p FlatPolicy) Amount(cause Cause) int64 {
	switch cause {
	case CauseOverdue:
		return p.Overdue
	case CauseUnauthorizedExit:
		return p.UnauthorizedExit
	default:
		return 0
	}
}
