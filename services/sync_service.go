package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/racedaynz/jockeyfinder/loveracing"
	"github.com/racedaynz/jockeyfinder/repositories"
)

// CalendarSource abstracts the LoveRacing client so the sync pipeline can be
// exercised without a live network dependency.
type CalendarSource interface {
	FetchCalendarEvents(ctx context.Context, start, end string) ([]loveracing.CalendarEvent, error)
}

type SyncResult struct {
	Fetched  int `json:"fetched"`
	Dropped  int `json:"dropped"`
	Inserted int `json:"inserted"`
}

type SyncService interface {
	// SyncMeetings fetches the upstream window, reconciles it and upserts
	// the whole batch keyed by nztr_day_id. Re-running the same window is a
	// no-op for content: existing rows are overwritten with identical data.
	SyncMeetings(ctx context.Context, start, end string) (*SyncResult, error)
}

type syncService struct {
	source      CalendarSource
	meetingRepo repositories.MeetingRepository
	logger      *slog.Logger
}

func NewSyncService(source CalendarSource, meetingRepo repositories.MeetingRepository, logger *slog.Logger) SyncService {
	return &syncService{
		source:      source,
		meetingRepo: meetingRepo,
		logger:      logger,
	}
}

func (s *syncService) SyncMeetings(ctx context.Context, start, end string) (*SyncResult, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}

	events, err := s.source.FetchCalendarEvents(ctx, start, end)
	if err != nil {
		var malformed *loveracing.MalformedPayloadError
		if errors.As(err, &malformed) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	meetings := loveracing.Reconcile(events)
	dropped := len(events) - len(meetings)
	if dropped > 0 {
		s.logger.Warn("dropped malformed calendar events",
			slog.Int("dropped", dropped), slog.Int("fetched", len(events)))
	}

	inserted := 0
	if len(meetings) > 0 {
		inserted, err = s.meetingRepo.UpsertBatch(ctx, meetings)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyncPersistence, err)
		}
	}

	s.logger.Info("meeting sync complete",
		slog.String("start", start), slog.String("end", end),
		slog.Int("fetched", len(events)), slog.Int("inserted", inserted))

	return &SyncResult{Fetched: len(events), Dropped: dropped, Inserted: inserted}, nil
}
