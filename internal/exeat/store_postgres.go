package exeat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
	"unipass/pkg/requestcontext"
)

// PostgresStore persists exeat requests in PostgreSQL. Transition locks the
// row (SELECT ... FOR UPDATE) so the check-then-write is atomic per exeat;
// concurrent callers on different exeats never contend.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const exeatColumns = `id, student_id, student_name, matric_number, reason,
	departure_at, return_at, parent_contact, status,
	parent_approved_at, dean_approved_at, credential_token,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO exeats (` + exeatColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(req.ID), uuid.UUID(req.StudentID), req.StudentName, req.MatricNumber, req.Reason,
		req.DepartureAt, req.ReturnAt, req.ParentContact, string(req.Status),
		req.ParentApprovedAt, req.DeanApprovedAt, req.CredentialToken,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("create exeat: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ExeatID) (*Request, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exeatColumns+` FROM exeats WHERE id = $1`, uuid.UUID(id))
	req, err := scanExeat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find exeat: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) ListByStudent(ctx context.Context, studentID domain.StudentID) ([]*Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+exeatColumns+` FROM exeats WHERE student_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(studentID))
	if err != nil {
		return nil, fmt.Errorf("list exeats by student: %w", err)
	}
	defer rows.Close()
	return collectExeats(rows)
}

func (s *PostgresStore) Transition(ctx context.Context, id domain.ExeatID, from, to Status, mutate func(*Request)) (*Request, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+exeatColumns+` FROM exeats WHERE id = $1 FOR UPDATE`, uuid.UUID(id))
	req, err := scanExeat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock exeat: %w", err)
	}
	if req.Status != from {
		return nil, sentinel.ErrInvalidState
	}

	req.Status = to
	req.UpdatedAt = requestcontext.Now(ctx)
	if mutate != nil {
		mutate(req)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE exeats
		SET status = $2, parent_approved_at = $3, dean_approved_at = $4,
		    credential_token = $5, updated_at = $6
		WHERE id = $1 AND status = $7
	`, uuid.UUID(id), string(req.Status), req.ParentApprovedAt, req.DeanApprovedAt,
		req.CredentialToken, req.UpdatedAt, string(from))
	if err != nil {
		return nil, fmt.Errorf("transition exeat: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) ListApprovedReturnDue(ctx context.Context, cutoff time.Time) ([]*Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exeatColumns+` FROM exeats
		WHERE status = $1 AND return_at <= $2
		ORDER BY return_at
	`, string(StatusApproved), cutoff)
	if err != nil {
		return nil, fmt.Errorf("list return-due exeats: %w", err)
	}
	defer rows.Close()
	return collectExeats(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExeat(row rowScanner) (*Request, error) {
	var (
		req             Request
		id, studentID   uuid.UUID
		status          string
		parentAt        sql.NullTime
		deanAt          sql.NullTime
		credentialToken sql.NullString
	)
	err := row.Scan(&id, &studentID, &req.StudentName, &req.MatricNumber, &req.Reason,
		&req.DepartureAt, &req.ReturnAt, &req.ParentContact, &status,
		&parentAt, &deanAt, &credentialToken,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.ID = domain.ExeatID(id)
	req.StudentID = domain.StudentID(studentID)
	req.Status = Status(status)
	if parentAt.Valid {
		t := parentAt.Time
		req.ParentApprovedAt = &t
	}
	if deanAt.Valid {
		t := deanAt.Time
		req.DeanApprovedAt = &t
	}
	req.CredentialToken = credentialToken.String
	return &req, nil
}

func collectExeats(rows *sql.Rows) ([]*Request, error) {
	var out []*Request
	for rows.Next() {
		req, err := scanExeat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exeat: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exeats: %w", err)
	}
	return out, nil
}
