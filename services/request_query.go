package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
)

// RideRequestQueryService is the read side of the workflow: request listings
// enriched with denormalized meeting and counterpart-profile snapshots.
type RideRequestQueryService interface {
	ListIncoming(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error)
	ListOutgoing(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error)
	ListAll(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error)
}

type rideRequestQueryService struct {
	requestRepo repositories.RideRequestRepository
	meetingRepo repositories.MeetingRepository
	profileRepo repositories.ProfileRepository
	gate        *VerificationGate
}

func NewRideRequestQueryService(
	requestRepo repositories.RideRequestRepository,
	meetingRepo repositories.MeetingRepository,
	profileRepo repositories.ProfileRepository,
	gate *VerificationGate,
) RideRequestQueryService {
	return &rideRequestQueryService{
		requestRepo: requestRepo,
		meetingRepo: meetingRepo,
		profileRepo: profileRepo,
		gate:        gate,
	}
}

func (s *rideRequestQueryService) ListIncoming(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error) {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleJockey {
		return nil, ErrForbiddenOperation
	}

	requests, err := s.requestRepo.ListByJockey(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}
	return s.enrich(ctx, requests)
}

func (s *rideRequestQueryService) ListOutgoing(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error) {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleTrainer {
		return nil, ErrForbiddenOperation
	}

	requests, err := s.requestRepo.ListByTrainer(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing requests: %w", err)
	}
	return s.enrich(ctx, requests)
}

func (s *rideRequestQueryService) ListAll(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error) {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	requests, err := s.requestRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all requests: %w", err)
	}
	return s.enrich(ctx, requests)
}

// enrich attaches meeting and profile snapshots to each request. Meetings
// and profiles are fetched concurrently; both lookups are keyed batch reads.
func (s *rideRequestQueryService) enrich(ctx context.Context, requests []*models.RideRequest) ([]*models.RideRequest, error) {
	if len(requests) == 0 {
		return requests, nil
	}

	meetingIDSet := make(map[int]struct{})
	profileIDSet := make(map[uuid.UUID]struct{})
	for _, req := range requests {
		meetingIDSet[req.MeetingID] = struct{}{}
		profileIDSet[req.TrainerID] = struct{}{}
		profileIDSet[req.JockeyID] = struct{}{}
	}

	meetingIDs := make([]int, 0, len(meetingIDSet))
	for id := range meetingIDSet {
		meetingIDs = append(meetingIDs, id)
	}
	profileIDs := make([]uuid.UUID, 0, len(profileIDSet))
	for id := range profileIDSet {
		profileIDs = append(profileIDs, id)
	}

	var (
		meetings map[int]*models.Meeting
		profiles map[uuid.UUID]*models.Profile
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meetings, err = s.meetingRepo.GetByIDs(gCtx, meetingIDs)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profileRepo.GetByIDs(gCtx, profileIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to enrich requests: %w", err)
	}

	for _, req := range requests {
		req.Meeting = meetings[req.MeetingID].Snapshot()
		req.Trainer = profiles[req.TrainerID].Snapshot()
		req.Jockey = profiles[req.JockeyID].Snapshot()
	}
	return requests, nil
}
