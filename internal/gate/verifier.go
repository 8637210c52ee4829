package gate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"unipass/internal/credential"
	"unipass/internal/exeat"
	"unipass/internal/penalty"
	"unipass/internal/platform/metrics"
	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/platform/sentinel"
	"unipass/pkg/requestcontext"
)

// Decoder is the credential codec seam.
type Decoder interface {
	Decode(raw string) (*credential.Credential, error)
}

// ExeatRegistry is the slice of the exeat service the verifier needs.
type ExeatRegistry interface {
	Get(ctx context.Context, id domain.ExeatID) (*exeat.Request, error)
	MarkCompleted(ctx context.Context, id domain.ExeatID) (*exeat.Request, error)
	MarkOverdue(ctx context.Context, id domain.ExeatID) (*exeat.Request, error)
}

// PenaltyTrigger fires a penalty. Implementations must be idempotent per
// (exeat, cause).
type PenaltyTrigger interface {
	Trigger(ctx context.Context, studentID domain.StudentID, exeatID domain.ExeatID, cause penalty.Cause) (*penalty.Penalty, error)
}

// RevocationList marks spent credentials.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ScanInput is one presented credential at a gate terminal.
type ScanInput struct {
	Token   string
	Type    ActivityType
	StaffID domain.StaffID
}

// Verifier judges gate scans. Every attempt, valid or not, is recorded as an
// activity; the returned Activity carries the judgment. Scans for the same
// exeat are serialized through a per-exeat lock so the exit/entry alternation
// check and the record it guards cannot interleave.
type Verifier struct {
	decoder     Decoder
	exeats      ExeatRegistry
	activities  Store
	revocations RevocationList
	penalties   PenaltyTrigger

	// earlyExitTolerance permits leaving this long before the departure time.
	earlyExitTolerance time.Duration

	locks   keyedMutex
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewVerifier(
	decoder Decoder,
	exeats ExeatRegistry,
	activities Store,
	revocations RevocationList,
	penalties PenaltyTrigger,
	earlyExitTolerance time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Verifier {
	return &Verifier{
		decoder:            decoder,
		exeats:             exeats,
		activities:         activities,
		revocations:        revocations,
		penalties:          penalties,
		earlyExitTolerance: earlyExitTolerance,
		metrics:            m,
		logger:             logger,
		tracer:             otel.Tracer("unipass/gate"),
	}
}

// Scan verifies one presented credential and records the outcome. Every
// judged scan (valid, invalid, or overdue) returns a nil error, a token that
// does not decode included; the error path is reserved for bad input and
// infrastructure faults.
func (v *Verifier) Scan(ctx context.Context, in ScanInput) (*Activity, error) {
	started := time.Now()
	ctx, span := v.tracer.Start(ctx, "gate.Scan",
		trace.WithAttributes(attribute.String("scan.type", string(in.Type))))
	defer span.End()
	defer func() {
		v.metrics.ObserveScanLatency(time.Since(started))
	}()

	if !in.Type.Valid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown activity type")
	}
	if in.StaffID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "staff id is required")
	}

	now := requestcontext.Now(ctx)

	cred, err := v.decoder.Decode(in.Token)
	if err != nil {
		// An undecodable token is still a judged scan. There is no exeat to
		// attribute it to, so the activity carries zero references.
		return v.record(ctx, &Activity{
			StaffID:    in.StaffID,
			Type:       in.Type,
			RecordedAt: now,
			Result:     ResultInvalid,
			Note:       "malformed credential",
		})
	}
	span.SetAttributes(attribute.String("exeat.id", cred.ExeatID.String()))

	unlock := v.locks.lock(cred.ExeatID)
	defer unlock()

	revoked, err := v.revocations.IsRevoked(ctx, cred.JTI)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "check revocation", err)
	}
	if revoked {
		// Presenting a spent credential at the exit side is an attempt to
		// leave without a live authorization.
		if in.Type == TypeExit {
			v.triggerUnauthorizedExit(ctx, cred.Subject.StudentID, cred.ExeatID)
		}
		return v.record(ctx, v.judged(cred, in, now, ResultInvalid, "credential revoked"))
	}

	req, err := v.exeats.Get(ctx, cred.ExeatID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return v.record(ctx, v.judged(cred, in, now, ResultInvalid, "unknown exeat"))
		}
		return nil, err
	}

	var activity *Activity
	switch in.Type {
	case TypeExit:
		activity, err = v.judgeExit(ctx, cred, req, in, now)
	case TypeEntry:
		activity, err = v.judgeEntry(ctx, cred, req, in, now)
	}
	if err != nil {
		return nil, err
	}
	return v.record(ctx, activity)
}

func (v *Verifier) judgeExit(ctx context.Context, cred *credential.Credential, req *exeat.Request, in ScanInput, now time.Time) (*Activity, error) {
	switch req.Status {
	case exeat.StatusApproved:
		last, err := v.activities.LastMovement(ctx, cred.ExeatID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "load last movement", err)
		}
		if last != nil && last.Type == TypeExit {
			return v.judged(cred, in, now, ResultInvalid, "out-of-order scan"), nil
		}
		if now.Before(req.DepartureAt.Add(-v.earlyExitTolerance)) {
			return v.judged(cred, in, now, ResultInvalid, "before travel window"), nil
		}
		return v.judged(cred, in, now, ResultValid, ""), nil

	case exeat.StatusDenied:
		// Tokens are only minted on approval, so a decodable token here came
		// from outside the normal flow. Refuse and record, no sanction.
		return v.judged(cred, in, now, ResultInvalid, "exeat denied"), nil

	case exeat.StatusCompleted, exeat.StatusOverdue:
		// A decodable token for a settled exeat means its revocation entry
		// has already lapsed and the holder is trying to leave on it again.
		v.triggerUnauthorizedExit(ctx, req.StudentID, req.ID)
		return v.judged(cred, in, now, ResultInvalid, "exeat is in status "+string(req.Status)), nil

	default:
		return v.judged(cred, in, now, ResultInvalid, "exeat is in status "+string(req.Status)), nil
	}
}

func (v *Verifier) triggerUnauthorizedExit(ctx context.Context, studentID domain.StudentID, exeatID domain.ExeatID) {
	if _, err := v.penalties.Trigger(ctx, studentID, exeatID, penalty.CauseUnauthorizedExit); err != nil {
		v.logger.ErrorContext(ctx, "unauthorized exit penalty failed",
			"exeat_id", exeatID, "error", err)
	}
}

func (v *Verifier) judgeEntry(ctx context.Context, cred *credential.Credential, req *exeat.Request, in ScanInput, now time.Time) (*Activity, error) {
	switch req.Status {
	case exeat.StatusApproved:
		last, err := v.activities.LastMovement(ctx, cred.ExeatID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return v.judged(cred, in, now, ResultInvalid, "out-of-order scan"), nil
			}
			return nil, dErrors.Wrap(dErrors.CodeInternal, "load last movement", err)
		}
		if last.Type != TypeExit {
			return v.judged(cred, in, now, ResultInvalid, "out-of-order scan"), nil
		}

		if now.After(req.ReturnAt) {
			return v.settleOverdueEntry(ctx, cred, req, in, now)
		}

		if _, err := v.exeats.MarkCompleted(ctx, req.ID); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvalidTransition) {
				return v.judged(cred, in, now, ResultInvalid, "out-of-order scan"), nil
			}
			return nil, err
		}
		v.revoke(ctx, cred, now)
		return v.judged(cred, in, now, ResultValid, ""), nil

	case exeat.StatusOverdue:
		// The sweep flipped the status before the student reached the gate.
		// Record the late return; the overdue penalty trigger is idempotent.
		last, err := v.activities.LastMovement(ctx, cred.ExeatID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "load last movement", err)
		}
		if last == nil || last.Type != TypeExit {
			return v.judged(cred, in, now, ResultInvalid, "out-of-order scan"), nil
		}
		if _, err := v.penalties.Trigger(ctx, req.StudentID, req.ID, penalty.CauseOverdue); err != nil {
			v.logger.ErrorContext(ctx, "overdue penalty failed", "exeat_id", req.ID, "error", err)
		}
		v.revoke(ctx, cred, now)
		return v.judged(cred, in, now, ResultOverdue, "late return"), nil

	default:
		return v.judged(cred, in, now, ResultInvalid, "exeat is in status "+string(req.Status)), nil
	}
}

// settleOverdueEntry handles an entry scan past the return deadline while the
// exeat is still approved. The gate flips it to overdue itself rather than
// waiting for the sweep; if the sweep wins the race the outcome is identical.
func (v *Verifier) settleOverdueEntry(ctx context.Context, cred *credential.Credential, req *exeat.Request, in ScanInput, now time.Time) (*Activity, error) {
	if _, err := v.exeats.MarkOverdue(ctx, req.ID); err != nil && !dErrors.HasCode(err, dErrors.CodeInvalidTransition) {
		return nil, err
	}
	if _, err := v.penalties.Trigger(ctx, req.StudentID, req.ID, penalty.CauseOverdue); err != nil {
		v.logger.ErrorContext(ctx, "overdue penalty failed", "exeat_id", req.ID, "error", err)
	}
	v.revoke(ctx, cred, now)
	return v.judged(cred, in, now, ResultOverdue, "late return"), nil
}

func (v *Verifier) judged(cred *credential.Credential, in ScanInput, now time.Time, result Result, note string) *Activity {
	return &Activity{
		ExeatID:    cred.ExeatID,
		StudentID:  cred.Subject.StudentID,
		StaffID:    in.StaffID,
		Type:       in.Type,
		RecordedAt: now,
		Result:     result,
		Note:       note,
	}
}

func (v *Verifier) record(ctx context.Context, activity *Activity) (*Activity, error) {
	activity.ID = domain.NewActivityID()
	if err := v.activities.Record(ctx, activity); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "record activity", err)
	}
	v.metrics.IncScan(string(activity.Type), string(activity.Result))
	v.logger.InfoContext(ctx, "gate scan",
		"exeat_id", activity.ExeatID, "type", activity.Type,
		"result", activity.Result, "note", activity.Note)
	return activity, nil
}

// Activities returns the full scan log for one exeat, oldest first.
func (v *Verifier) Activities(ctx context.Context, exeatID domain.ExeatID) ([]*Activity, error) {
	out, err := v.activities.ListByExeat(ctx, exeatID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list activities", err)
	}
	return out, nil
}

// revoke puts the spent credential on the revocation list. Best effort: the
// status transition already happened, and the verifier rejects terminal
// statuses on its own, so a failed revocation only widens a short window.
func (v *Verifier) revoke(ctx context.Context, cred *credential.Credential, now time.Time) {
	ttl := cred.Window.ReturnAt.Sub(now) + 24*time.Hour
	if ttl < time.Hour {
		ttl = time.Hour
	}
	if err := v.revocations.Revoke(ctx, cred.JTI, ttl); err != nil {
		v.logger.ErrorContext(ctx, "revoke credential", "jti", cred.JTI, "error", err)
	}
}

// keyedMutex serializes work per exeat. The zero value is ready to use.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[domain.ExeatID]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(id domain.ExeatID) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[domain.ExeatID]*entryLock)
	}
	e, ok := k.locks[id]
	if !ok {
		e = &entryLock{}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
