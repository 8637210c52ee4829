// Package overdue runs the periodic sweep that catches students who never
// scanned back in. The gate verifier handles the late-return case at the
// gate; the sweep covers students who simply did not come back.
package overdue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"unipass/internal/exeat"
	"unipass/internal/gate"
	"unipass/internal/penalty"
	"unipass/internal/platform/metrics"
	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/platform/sentinel"
)

// ExeatSweeper is the slice of the exeat service the monitor needs.
type ExeatSweeper interface {
	ListApprovedReturnDue(ctx context.Context, cutoff time.Time) ([]*exeat.Request, error)
	MarkOverdue(ctx context.Context, id domain.ExeatID) (*exeat.Request, error)
	CloseUnused(ctx context.Context, id domain.ExeatID) (*exeat.Request, error)
}

// PenaltyTrigger fires the overdue penalty. Must be idempotent.
type PenaltyTrigger interface {
	Trigger(ctx context.Context, studentID domain.StudentID, exeatID domain.ExeatID, cause penalty.Cause) (*penalty.Penalty, error)
}

// RevocationList marks spent credentials.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Monitor periodically scans approved exeats past their return deadline. The
// sweep is idempotent: flipping the status is a compare-and-set, the penalty
// trigger suppresses duplicates, and a concurrent gate scan that gets there
// first just wins the race.
type Monitor struct {
	exeats      ExeatSweeper
	movements   gate.Store
	penalties   PenaltyTrigger
	revocations RevocationList

	interval time.Duration
	workers  int

	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewMonitor(
	exeats ExeatSweeper,
	movements gate.Store,
	penalties PenaltyTrigger,
	revocations RevocationList,
	interval time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Monitor{
		exeats:      exeats,
		movements:   movements,
		penalties:   penalties,
		revocations: revocations,
		interval:    interval,
		workers:     8,
		metrics:     m,
		logger:      logger,
		tracer:      otel.Tracer("unipass/overdue"),
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.ErrorContext(ctx, "overdue sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one pass. Exported so an operator endpoint or a test can force
// a sweep without waiting for the ticker.
func (m *Monitor) Sweep(ctx context.Context) error {
	started := time.Now()
	ctx, span := m.tracer.Start(ctx, "overdue.Sweep")
	defer span.End()
	defer func() {
		m.metrics.ObserveSweepDuration(time.Since(started))
	}()
	m.metrics.IncSweepRun()

	due, err := m.exeats.ListApprovedReturnDue(ctx, time.Now())
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("sweep.due", len(due)))
	if len(due) == 0 {
		return nil
	}

	var flipped int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	results := make(chan bool, len(due))
	for _, req := range due {
		g.Go(func() error {
			overdue, err := m.settle(gctx, req)
			if err != nil {
				m.logger.ErrorContext(gctx, "settle overdue exeat",
					"exeat_id", req.ID, "error", err)
				return nil
			}
			results <- overdue
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	close(results)
	for overdue := range results {
		if overdue {
			flipped++
		}
	}

	m.metrics.AddSweepOverdue(flipped)
	if flipped > 0 {
		m.logger.InfoContext(ctx, "overdue sweep", "due", len(due), "flipped", flipped)
	}
	return nil
}

// settle decides one past-deadline exeat. A student who exited and never
// returned goes overdue with a penalty. A student who never used the pass
// gets the exeat closed without one.
func (m *Monitor) settle(ctx context.Context, req *exeat.Request) (bool, error) {
	last, err := m.movements.LastMovement(ctx, req.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return false, err
	}

	if last == nil || last.Type != gate.TypeExit {
		if _, err := m.exeats.CloseUnused(ctx, req.ID); err != nil && !dErrors.HasCode(err, dErrors.CodeInvalidTransition) {
			return false, err
		}
		m.revoke(ctx, req)
		return false, nil
	}

	if _, err := m.exeats.MarkOverdue(ctx, req.ID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidTransition) {
			// A gate scan got there first.
			return false, nil
		}
		return false, err
	}
	if _, err := m.penalties.Trigger(ctx, req.StudentID, req.ID, penalty.CauseOverdue); err != nil {
		return true, err
	}
	m.revoke(ctx, req)
	return true, nil
}

func (m *Monitor) revoke(ctx context.Context, req *exeat.Request) {
	if req.CredentialToken == "" {
		return
	}
	ttl := time.Until(req.ReturnAt) + 24*time.Hour
	if ttl < time.Hour {
		ttl = time.Hour
	}
	// The jti equals the exeat ID by construction.
	if err := m.revocations.Revoke(ctx, req.ID.String(), ttl); err != nil {
		m.logger.ErrorContext(ctx, "revoke credential", "exeat_id", req.ID, "error", err)
	}
}
