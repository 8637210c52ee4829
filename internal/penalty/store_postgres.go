package penalty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
)

// PostgresStore persists penalties. Idempotency rides on the unique index
// over (exeat_id, cause): concurrent CreateIfAbsent calls race at the
// database, and ON CONFLICT DO NOTHING makes the loser a clean no-op.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const penaltyColumns = `id, student_id, exeat_id, cause, amount, status, created_at, paid_at`

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, p *Penalty) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO penalties (`+penaltyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (exeat_id, cause) DO NOTHING
	`, uuid.UUID(p.ID), uuid.UUID(p.StudentID), uuid.UUID(p.ExeatID),
		string(p.Cause), p.Amount, string(p.Status), p.CreatedAt, p.PaidAt)
	if err != nil {
		return false, fmt.Errorf("create penalty: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create penalty result: %w", err)
	}
	return affected == 1, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.PenaltyID) (*Penalty, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+penaltyColumns+` FROM penalties WHERE id = $1`, uuid.UUID(id))
	p, err := scanPenalty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find penalty: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*Penalty, error) {
	return s.list(ctx, `student_id`, uuid.UUID(studentID))
}

func (s *PostgresStore) ListByExeat(ctx context.Context, exeatID domain.ExeatID) ([]*Penalty, error) {
	return s.list(ctx, `exeat_id`, uuid.UUID(exeatID))
}

func (s *PostgresStore) list(ctx context.Context, column string, id uuid.UUID) ([]*Penalty, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+penaltyColumns+` FROM penalties WHERE `+column+` = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("list penalties: %w", err)
	}
	defer rows.Close()

	var out []*Penalty
	for rows.Next() {
		p, err := scanPenalty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan penalty: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate penalties: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MarkPaid(ctx context.Context, id domain.PenaltyID, at time.Time) (*Penalty, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE penalties SET status = $2, paid_at = $3
		WHERE id = $1 AND status = $4
	`, uuid.UUID(id), string(StatusPaid), at, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("mark penalty paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("mark penalty paid result: %w", err)
	}
	if affected == 0 {
		if _, findErr := s.FindByID(ctx, id); errors.Is(findErr, sentinel.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, sentinel.ErrInvalidState
	}
	return s.FindByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPenalty(row rowScanner) (*Penalty, error) {
	var (
		p                        Penalty
		id, studentID, exeatID   uuid.UUID
		cause, status            string
		paidAt                   sql.NullTime
	)
	err := row.Scan(&id, &studentID, &exeatID, &cause, &p.Amount, &status, &p.CreatedAt, &paidAt)
	if err != nil {
		return nil, err
	}
	p.ID = domain.PenaltyID(id)
	p.StudentID = domain.StudentID(studentID)
	p.ExeatID = domain.ExeatID(exeatID)
	p.Cause = Cause(cause)
	p.Status = Status(status)
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}
