package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
)

type AttendanceService interface {
	MarkAttending(ctx context.Context, meetingID int, callerID uuid.UUID, availability models.Availability, note string) (*models.AttendanceRecord, error)
	ClearAttendance(ctx context.Context, meetingID int, callerID uuid.UUID) error
	// ForceBooked upserts the caller's row as attending/booked regardless of
	// any prior state. Invoked only by the ride-request workflow on
	// acceptance, inside the workflow's transaction.
	ForceBooked(ctx context.Context, exec repositories.SQLExecutor, meetingID int, userID uuid.UUID) error
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	meetingRepo    repositories.MeetingRepository
	gate           *VerificationGate
}

func NewAttendanceService(
	attendanceRepo repositories.AttendanceRepository,
	meetingRepo repositories.MeetingRepository,
	gate *VerificationGate,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		meetingRepo:    meetingRepo,
		gate:           gate,
	}
}

func (s *attendanceService) MarkAttending(ctx context.Context, meetingID int, callerID uuid.UUID, availability models.Availability, note string) (*models.AttendanceRecord, error) {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleOwner {
		return nil, ErrOwnerViewOnly
	}
	if !CanActAsVerified(caller.Role, caller.Status) {
		return nil, ErrNotApproved
	}
	if !availability.Valid() {
		return nil, ErrInvalidAvailability
	}

	if _, err := s.meetingRepo.GetByID(ctx, meetingID); err != nil {
		if errors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to check meeting %d: %w", meetingID, err)
	}

	record := &models.AttendanceRecord{
		MeetingID:    meetingID,
		UserID:       callerID,
		Attending:    true,
		Availability: availability,
		Note:         trimmedOrNil(note),
	}

	if err := s.attendanceRepo.Upsert(ctx, nil, record); err != nil {
		if errors.Is(err, repositories.ErrAttendanceMeetingInvalid) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}
	return record, nil
}

func (s *attendanceService) ClearAttendance(ctx context.Context, meetingID int, callerID uuid.UUID) error {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role == models.RoleOwner {
		return ErrOwnerViewOnly
	}

	err = s.attendanceRepo.Delete(ctx, meetingID, callerID)
	if err != nil && !errors.Is(err, repositories.ErrAttendanceNotFound) {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}
	// Absent row is a no-op: withdrawing twice is fine.
	return nil
}

func (s *attendanceService) ForceBooked(ctx context.Context, exec repositories.SQLExecutor, meetingID int, userID uuid.UUID) error {
	record := &models.AttendanceRecord{
		MeetingID:    meetingID,
		UserID:       userID,
		Attending:    true,
		Availability: models.AvailabilityBooked,
	}
	if err := s.attendanceRepo.Upsert(ctx, exec, record); err != nil {
		return fmt.Errorf("failed to force booked availability: %w", err)
	}
	return nil
}

func trimmedOrNil(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}
