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
	ErrRequestNotFound           = errors.New("ride request not found")
	ErrRequestNotRequested       = errors.New("ride request is no longer in requested state")
	ErrRequestMeetingInvalid     = errors.New("ride request meeting conflict or invalid")
	ErrRequestParticipantInvalid = errors.New("ride request trainer or jockey conflict or invalid")
)

type RideRequestRepository interface {
	Create(ctx context.Context, req *models.RideRequest) error
	FindByID(ctx context.Context, id int) (*models.RideRequest, error)
	// UpdateStatusIfRequested performs the conditional transition
	// requested -> status as a single atomic statement. Zero rows affected
	// means the request was missing or already resolved; the caller
	// distinguishes the two with a follow-up read.
	UpdateStatusIfRequested(ctx context.Context, exec SQLExecutor, id int, status models.RideRequestStatus) error
	ListByJockey(ctx context.Context, jockeyID uuid.UUID) ([]*models.RideRequest, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]*models.RideRequest, error)
	// ListByTrainerAndMeeting returns requests newest-first; callers keeping
	// one request per jockey rely on that ordering.
	ListByTrainerAndMeeting(ctx context.Context, trainerID uuid.UUID, meetingID int) ([]*models.RideRequest, error)
	ListAll(ctx context.Context) ([]*models.RideRequest, error)
}

type postgresRideRequestRepository struct {
	db *sql.DB
}

func NewPostgresRideRequestRepository(db *sql.DB) RideRequestRepository {
	return &postgresRideRequestRepository{db: db}
}

func (r *postgresRideRequestRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const requestColumns = `id, meeting_id, trainer_id, jockey_id, horse, race_number, note, status, created_at`

func (r *postgresRideRequestRepository) Create(ctx context.Context, req *models.RideRequest) error {
	query := `
		INSERT INTO ride_requests (meeting_id, trainer_id, jockey_id, horse, race_number, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		req.MeetingID,
		req.TrainerID,
		req.JockeyID,
		req.Horse,
		req.RaceNumber,
		req.Note,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "ride_requests_meeting_id_fkey":
				return ErrRequestMeetingInvalid
			case "ride_requests_trainer_id_fkey", "ride_requests_jockey_id_fkey":
				return ErrRequestParticipantInvalid
			}
		}
		return fmt.Errorf("failed to create ride request: %w", err)
	}
	return nil
}

func (r *postgresRideRequestRepository) scanRequest(rowScanner interface {
	Scan(dest ...interface{}) error
}, req *models.RideRequest) error {
	return rowScanner.Scan(
		&req.ID,
		&req.MeetingID,
		&req.TrainerID,
		&req.JockeyID,
		&req.Horse,
		&req.RaceNumber,
		&req.Note,
		&req.Status,
		&req.CreatedAt,
	)
}

func (r *postgresRideRequestRepository) FindByID(ctx context.Context, id int) (*models.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM ride_requests WHERE id = $1`
	req := &models.RideRequest{}
	err := r.scanRequest(r.db.QueryRowContext(ctx, query, id), req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find ride request %d: %w", id, err)
	}
	return req, nil
}

func (r *postgresRideRequestRepository) UpdateStatusIfRequested(ctx context.Context, exec SQLExecutor, id int, status models.RideRequestStatus) error {
	query := `UPDATE ride_requests SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id, models.RequestStatusRequested)
	if err != nil {
		return fmt.Errorf("failed to update ride request status: %w", err)
	}
	return checkAffectedRows(result, ErrRequestNotRequested)
}

func (r *postgresRideRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.RideRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ride requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.RideRequest, 0)
	for rows.Next() {
		var req models.RideRequest
		if err := r.scanRequest(rows, &req); err != nil {
			return nil, fmt.Errorf("failed to scan ride request row: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ride request rows: %w", err)
	}
	return requests, nil
}

func (r *postgresRideRequestRepository) ListByJockey(ctx context.Context, jockeyID uuid.UUID) ([]*models.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM ride_requests WHERE jockey_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, jockeyID)
}

func (r *postgresRideRequestRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]*models.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM ride_requests WHERE trainer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, trainerID)
}

func (r *postgresRideRequestRepository) ListByTrainerAndMeeting(ctx context.Context, trainerID uuid.UUID, meetingID int) ([]*models.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM ride_requests WHERE trainer_id = $1 AND meeting_id = $2 ORDER BY created_at DESC`
	return r.list(ctx, query, trainerID, meetingID)
}

func (r *postgresRideRequestRepository) ListAll(ctx context.Context) ([]*models.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM ride_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}
