package gate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
)

// PostgresStore persists gate activity in PostgreSQL. The exeat reference is
// nullable: scans whose token did not decode still get an audit row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, activity *Activity) error {
	var exeatID any
	if !activity.ExeatID.IsZero() {
		exeatID = uuid.UUID(activity.ExeatID)
	}
	var studentID any
	if !activity.StudentID.IsZero() {
		studentID = uuid.UUID(activity.StudentID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gate_activities (id, exeat_id, student_id, staff_id, activity_type, recorded_at, result, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(activity.ID), exeatID, studentID, uuid.UUID(activity.StaffID),
		string(activity.Type), activity.RecordedAt, string(activity.Result), activity.Note)
	if err != nil {
		return fmt.Errorf("record gate activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByExeat(ctx context.Context, exeatID domain.ExeatID) ([]*Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exeat_id, student_id, staff_id, activity_type, recorded_at, result, note
		FROM gate_activities
		WHERE exeat_id = $1
		ORDER BY recorded_at
	`, uuid.UUID(exeatID))
	if err != nil {
		return nil, fmt.Errorf("list gate activities: %w", err)
	}
	defer rows.Close()

	var out []*Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gate activity: %w", err)
		}
		out = append(out, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gate activities: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) LastMovement(ctx context.Context, exeatID domain.ExeatID) (*Activity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, exeat_id, student_id, staff_id, activity_type, recorded_at, result, note
		FROM gate_activities
		WHERE exeat_id = $1 AND result <> $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`, uuid.UUID(exeatID), string(ResultInvalid))
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("last gate movement: %w", err)
	}
	return activity, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var (
		activity             Activity
		id, staffID          uuid.UUID
		exeatID, studentID   uuid.NullUUID
		activityType, result string
		note                 sql.NullString
	)
	err := row.Scan(&id, &exeatID, &studentID, &staffID, &activityType, &activity.RecordedAt, &result, &note)
	if err != nil {
		return nil, err
	}
	activity.ID = domain.ActivityID(id)
	activity.ExeatID = domain.ExeatID(exeatID.UUID)
	activity.StudentID = domain.StudentID(studentID.UUID)
	activity.StaffID = domain.StaffID(staffID)
	activity.Type = ActivityType(activityType)
	activity.Result = Result(result)
	activity.Note = note.String
	return &activity, nil
}
