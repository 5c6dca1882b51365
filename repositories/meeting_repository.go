package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/racedaynz/jockeyfinder/models"
)

var ErrMeetingNotFound = errors.New("meeting not found")

type MeetingRepository interface {
	GetByID(ctx context.Context, id int) (*models.Meeting, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Meeting, error)
	ListByDateRange(ctx context.Context, from, to string) ([]*models.Meeting, error)
	// UpsertBatch writes all rows keyed by nztr_day_id in a single statement.
	// Existing rows have date/track/club overwritten; the upstream calendar is
	// authoritative. Returns the number of rows written.
	UpsertBatch(ctx context.Context, meetings []*models.Meeting) (int, error)
}

type postgresMeetingRepository struct {
	db *sql.DB
}

func NewPostgresMeetingRepository(db *sql.DB) MeetingRepository {
	return &postgresMeetingRepository{db: db}
}

const meetingColumns = `id, meeting_date, track, club, nztr_day_id, source, created_at`

func (r *postgresMeetingRepository) scanMeeting(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.Meeting) error {
	return rowScanner.Scan(
		&m.ID,
		&m.MeetingDate,
		&m.Track,
		&m.Club,
		&m.NZTRDayID,
		&m.Source,
		&m.CreatedAt,
	)
}

func (r *postgresMeetingRepository) GetByID(ctx context.Context, id int) (*models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	m := &models.Meeting{}
	err := r.scanMeeting(r.db.QueryRowContext(ctx, query, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMeetingRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Meeting, error) {
	result := make(map[int]*models.Meeting, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Meeting
		if err := r.scanMeeting(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan meeting row: %w", err)
		}
		result[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting rows: %w", err)
	}
	return result, nil
}

func (r *postgresMeetingRepository) ListByDateRange(ctx context.Context, from, to string) ([]*models.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings
		WHERE meeting_date >= $1 AND meeting_date <= $2
		ORDER BY meeting_date ASC`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings by date range: %w", err)
	}
	defer rows.Close()

	meetings := make([]*models.Meeting, 0)
	for rows.Next() {
		var m models.Meeting
		if err := r.scanMeeting(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan meeting row: %w", err)
		}
		meetings = append(meetings, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting rows: %w", err)
	}
	return meetings, nil
}

func (r *postgresMeetingRepository) UpsertBatch(ctx context.Context, meetings []*models.Meeting) (int, error) {
	if len(meetings) == 0 {
		return 0, nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`INSERT INTO meetings (nztr_day_id, meeting_date, track, club, source) VALUES `)

	args := make([]interface{}, 0, len(meetings)*5)
	for i, m := range meetings {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		base := i * 5
		queryBuilder.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, m.NZTRDayID, m.MeetingDate, m.Track, m.Club, m.Source)
	}

	queryBuilder.WriteString(`
		ON CONFLICT (nztr_day_id) DO UPDATE SET
			meeting_date = EXCLUDED.meeting_date,
			track = EXCLUDED.track,
			club = EXCLUDED.club,
			source = EXCLUDED.source`)

	result, err := r.db.ExecContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert meetings batch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows for meetings upsert: %w", err)
	}
	return int(rowsAffected), nil
}
