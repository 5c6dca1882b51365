package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
)

type CreateRequestInput struct {
	MeetingID  int       `json:"meeting_id"`
	JockeyID   uuid.UUID `json:"jockey_id"`
	Horse      string    `json:"horse,omitempty"`
	RaceNumber string    `json:"race_number,omitempty"`
	Note       string    `json:"note,omitempty"`
}

type RideRequestService interface {
	CreateRequest(ctx context.Context, callerID uuid.UUID, input CreateRequestInput) (*models.RideRequest, error)
	Respond(ctx context.Context, callerID uuid.UUID, requestID int, newStatus models.RideRequestStatus) (*models.RideRequest, error)
}

type rideRequestService struct {
	db          *sql.DB
	requestRepo repositories.RideRequestRepository
	meetingRepo repositories.MeetingRepository
	attendance  AttendanceService
	gate        *VerificationGate
	logger      *slog.Logger
}

func NewRideRequestService(
	db *sql.DB,
	requestRepo repositories.RideRequestRepository,
	meetingRepo repositories.MeetingRepository,
	attendance AttendanceService,
	gate *VerificationGate,
	logger *slog.Logger,
) RideRequestService {
	return &rideRequestService{
		db:          db,
		requestRepo: requestRepo,
		meetingRepo: meetingRepo,
		attendance:  attendance,
		gate:        gate,
		logger:      logger,
	}
}

func (s *rideRequestService) CreateRequest(ctx context.Context, callerID uuid.UUID, input CreateRequestInput) (*models.RideRequest, error) {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !IsApprovedTrainer(caller.Role, caller.Status) {
		return nil, ErrForbiddenOperation
	}

	if _, err := s.meetingRepo.GetByID(ctx, input.MeetingID); err != nil {
		if errors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to check meeting %d: %w", input.MeetingID, err)
	}
	if _, err := s.gate.ResolveCaller(ctx, input.JockeyID); err != nil {
		return nil, err
	}

	req := &models.RideRequest{
		MeetingID:  input.MeetingID,
		TrainerID:  callerID,
		JockeyID:   input.JockeyID,
		Horse:      trimmedOrNil(input.Horse),
		RaceNumber: coerceRaceNumber(input.RaceNumber),
		Note:       trimmedOrNil(input.Note),
		Status:     models.RequestStatusRequested,
	}

	// No dedup: a trainer may hold several in-flight requests to the same
	// jockey for the same meeting.
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrRequestMeetingInvalid) {
			return nil, ErrMeetingNotFound
		}
		if errors.Is(err, repositories.ErrRequestParticipantInvalid) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to create ride request: %w", err)
	}
	return req, nil
}

func (s *rideRequestService) Respond(ctx context.Context, callerID uuid.UUID, requestID int, newStatus models.RideRequestStatus) (*models.RideRequest, error) {
	if newStatus != models.RequestStatusAccepted && newStatus != models.RequestStatusDeclined {
		return nil, ErrInvalidRequestStatus
	}

	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleJockey {
		return nil, ErrForbiddenOperation
	}
	if !IsApprovedJockey(caller.Role, caller.Status) {
		return nil, ErrNotApproved
	}

	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load ride request %d: %w", requestID, err)
	}
	if req.JockeyID != callerID {
		return nil, ErrForbiddenOperation
	}

	// The status transition and the booked upsert must land together or not
	// at all. The conditional update doubles as the guard against two
	// concurrent responses: the loser sees zero rows affected.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed after respond error",
					slog.Int("request_id", requestID), slog.Any("error", rbErr))
			}
		}
	}()

	if txErr = s.requestRepo.UpdateStatusIfRequested(ctx, tx, requestID, newStatus); txErr != nil {
		if errors.Is(txErr, repositories.ErrRequestNotRequested) {
			return nil, ErrRequestAlreadyResolved
		}
		return nil, fmt.Errorf("failed to update ride request %d: %w", requestID, txErr)
	}

	if newStatus == models.RequestStatusAccepted {
		// Upsert works even when the jockey never self-reported attendance.
		if txErr = s.attendance.ForceBooked(ctx, tx, req.MeetingID, callerID); txErr != nil {
			return nil, fmt.Errorf("failed to mark jockey booked for meeting %d: %w", req.MeetingID, txErr)
		}
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit ride request response: %w", txErr)
	}

	req.Status = newStatus
	return req, nil
}

// coerceRaceNumber applies the lenient policy for the optional race number:
// non-numeric input is dropped to nil rather than rejected.
func coerceRaceNumber(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}
