package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/racedaynz/jockeyfinder/models"
)

var (
	ErrAttendanceNotFound       = errors.New("attendance record not found")
	ErrAttendanceMeetingInvalid = errors.New("attendance meeting conflict or invalid")
	ErrAttendanceUserInvalid    = errors.New("attendance user conflict or invalid")
)

type AttendanceRepository interface {
	// Upsert writes the unique (meeting_id, user_id) row, overwriting
	// availability and note. The exec parameter lets the ride-request
	// workflow run the booked transition inside its own transaction;
	// pass nil to use the repository's connection.
	Upsert(ctx context.Context, exec SQLExecutor, record *models.AttendanceRecord) error
	FindByMeetingAndUser(ctx context.Context, meetingID int, userID uuid.UUID) (*models.AttendanceRecord, error)
	ListAttendingByMeeting(ctx context.Context, meetingID int) ([]*models.AttendanceRecord, error)
	CountAttendingByMeetings(ctx context.Context, meetingIDs []int) (map[int]int, error)
	Delete(ctx context.Context, meetingID int, userID uuid.UUID) error
}

type postgresAttendanceRepository struct {
	db *sql.DB
}

func NewPostgresAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &postgresAttendanceRepository{db: db}
}

func (r *postgresAttendanceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAttendanceRepository) Upsert(ctx context.Context, exec SQLExecutor, record *models.AttendanceRecord) error {
	query := `
		INSERT INTO meeting_attendance (meeting_id, user_id, attending, availability, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (meeting_id, user_id) DO UPDATE SET
			attending = EXCLUDED.attending,
			availability = EXCLUDED.availability,
			note = EXCLUDED.note
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		record.MeetingID,
		record.UserID,
		record.Attending,
		record.Availability,
		record.Note,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "meeting_attendance_meeting_id_fkey":
				return ErrAttendanceMeetingInvalid
			case "meeting_attendance_user_id_fkey":
				return ErrAttendanceUserInvalid
			}
		}
		return fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return nil
}

func (r *postgresAttendanceRepository) FindByMeetingAndUser(ctx context.Context, meetingID int, userID uuid.UUID) (*models.AttendanceRecord, error) {
	query := `
		SELECT id, meeting_id, user_id, attending, availability, note, created_at
		FROM meeting_attendance
		WHERE meeting_id = $1 AND user_id = $2`

	var rec models.AttendanceRecord
	err := r.db.QueryRowContext(ctx, query, meetingID, userID).Scan(
		&rec.ID, &rec.MeetingID, &rec.UserID, &rec.Attending, &rec.Availability, &rec.Note, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance record: %w", err)
	}
	return &rec, nil
}

func (r *postgresAttendanceRepository) ListAttendingByMeeting(ctx context.Context, meetingID int) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT id, meeting_id, user_id, attending, availability, note, created_at
		FROM meeting_attendance
		WHERE meeting_id = $1 AND attending = TRUE
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for meeting %d: %w", meetingID, err)
	}
	defer rows.Close()

	records := make([]*models.AttendanceRecord, 0)
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.MeetingID, &rec.UserID, &rec.Attending, &rec.Availability, &rec.Note, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

func (r *postgresAttendanceRepository) CountAttendingByMeetings(ctx context.Context, meetingIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(meetingIDs))
	if len(meetingIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT meeting_id, COUNT(*)
		FROM meeting_attendance
		WHERE attending = TRUE AND meeting_id = ANY($1)
		GROUP BY meeting_id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(meetingIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var meetingID, count int
		if err := rows.Scan(&meetingID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count row: %w", err)
		}
		counts[meetingID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance count rows: %w", err)
	}
	return counts, nil
}

func (r *postgresAttendanceRepository) Delete(ctx context.Context, meetingID int, userID uuid.UUID) error {
	query := `DELETE FROM meeting_attendance WHERE meeting_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, meetingID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	return checkAffectedRows(result, ErrAttendanceNotFound)
}
