package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
)

// RosterService is a pure read composition over attendance, profiles and the
// caller's own outstanding requests. Nothing here is persisted; the roster is
// recomputed on every read.
type RosterService interface {
	MeetingRoster(ctx context.Context, meetingID int, callerID uuid.UUID) ([]*models.RosterEntry, error)
	ListMeetings(ctx context.Context, from, to time.Time) ([]*models.MeetingSummary, error)
}

type rosterService struct {
	attendanceRepo repositories.AttendanceRepository
	profileRepo    repositories.ProfileRepository
	meetingRepo    repositories.MeetingRepository
	requestRepo    repositories.RideRequestRepository
	gate           *VerificationGate
}

func NewRosterService(
	attendanceRepo repositories.AttendanceRepository,
	profileRepo repositories.ProfileRepository,
	meetingRepo repositories.MeetingRepository,
	requestRepo repositories.RideRequestRepository,
	gate *VerificationGate,
) RosterService {
	return &rosterService{
		attendanceRepo: attendanceRepo,
		profileRepo:    profileRepo,
		meetingRepo:    meetingRepo,
		requestRepo:    requestRepo,
		gate:           gate,
	}
}

func (s *rosterService) MeetingRoster(ctx context.Context, meetingID int, callerID uuid.UUID) ([]*models.RosterEntry, error) {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.meetingRepo.GetByID(ctx, meetingID); err != nil {
		if errors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to check meeting %d: %w", meetingID, err)
	}

	attendance, err := s.attendanceRepo.ListAttendingByMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for meeting %d: %w", meetingID, err)
	}

	userIDs := make([]uuid.UUID, 0, len(attendance))
	for _, rec := range attendance {
		userIDs = append(userIDs, rec.UserID)
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster profiles: %w", err)
	}

	// An approved trainer sees which jockeys they can still request; the
	// caller's own outstanding requests for this meeting decide that.
	var requestsByJockey map[uuid.UUID]*models.RideRequest
	asTrainer := IsApprovedTrainer(caller.Role, caller.Status)
	if asTrainer {
		outgoing, err := s.requestRepo.ListByTrainerAndMeeting(ctx, callerID, meetingID)
		if err != nil {
			return nil, fmt.Errorf("failed to load trainer requests for meeting %d: %w", meetingID, err)
		}
		requestsByJockey = make(map[uuid.UUID]*models.RideRequest, len(outgoing))
		for _, req := range outgoing {
			// First seen wins; the listing is newest-first.
			if _, ok := requestsByJockey[req.JockeyID]; !ok {
				requestsByJockey[req.JockeyID] = req
			}
		}
	}

	entries := make([]*models.RosterEntry, 0, len(attendance))
	for _, rec := range attendance {
		entry := &models.RosterEntry{
			Attendance: *rec,
			Profile:    profiles[rec.UserID].Snapshot(),
		}

		if asTrainer && entry.Profile != nil {
			existing := requestsByJockey[rec.UserID]
			entry.ExistingRequest = existing
			entry.Requestable = entry.Profile.Role == models.RoleJockey &&
				entry.Profile.Status == models.StatusApproved &&
				rec.Availability == models.AvailabilityAvailable &&
				existing == nil
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *rosterService) ListMeetings(ctx context.Context, from, to time.Time) ([]*models.MeetingSummary, error) {
	meetings, err := s.meetingRepo.ListByDateRange(ctx, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	ids := make([]int, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}
	counts, err := s.attendanceRepo.CountAttendingByMeetings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count meeting attendance: %w", err)
	}

	summaries := make([]*models.MeetingSummary, 0, len(meetings))
	for _, m := range meetings {
		summaries = append(summaries, &models.MeetingSummary{
			Meeting:        *m,
			AttendingCount: counts[m.ID],
		})
	}
	return summaries, nil
}
