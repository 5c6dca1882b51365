package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racedaynz/jockeyfinder/loveracing"
)

type fakeCalendarSource struct {
	events []loveracing.CalendarEvent
	err    error
}

func (s *fakeCalendarSource) FetchCalendarEvents(context.Context, string, string) ([]loveracing.CalendarEvent, error) {
	return s.events, s.err
}

func TestSyncMeetings(t *testing.T) {
	validEvents := []loveracing.CalendarEvent{
		{DayID: "4821", RaceDate: "/Date(1767225600000)/", Racecourse: "Te Rapa", Club: "Waikato RC"},
		{DayID: "4822", RaceDate: "/Date(1767312000000)/", Racecourse: "Ellerslie", Club: "Auckland RC"},
	}

	t.Run("fetches, reconciles and upserts", func(t *testing.T) {
		meetingRepo := newFakeMeetingRepo()
		svc := NewSyncService(&fakeCalendarSource{events: validEvents}, meetingRepo, discardLogger())

		result, err := svc.SyncMeetings(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)

		assert.Equal(t, 2, result.Fetched)
		assert.Equal(t, 0, result.Dropped)
		assert.Equal(t, 2, result.Inserted)
		require.Len(t, meetingRepo.upserts, 1)
		assert.Equal(t, "2026-01-01", meetingRepo.upserts[0][0].MeetingDate)
		assert.Equal(t, "Te Rapa", meetingRepo.upserts[0][0].Track)
	})

	t.Run("rerunning the same window upserts the same keys", func(t *testing.T) {
		meetingRepo := newFakeMeetingRepo()
		svc := NewSyncService(&fakeCalendarSource{events: validEvents}, meetingRepo, discardLogger())

		_, err := svc.SyncMeetings(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)
		_, err = svc.SyncMeetings(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)

		// Two batches, but still only two distinct day ids.
		require.Len(t, meetingRepo.upserts, 2)
		assert.Len(t, meetingRepo.byDayID, 2)
	})

	t.Run("malformed events are dropped and counted", func(t *testing.T) {
		events := append([]loveracing.CalendarEvent{
			{DayID: "not-a-number", RaceDate: "/Date(1767225600000)/", Racecourse: "Nowhere"},
		}, validEvents...)
		meetingRepo := newFakeMeetingRepo()
		svc := NewSyncService(&fakeCalendarSource{events: events}, meetingRepo, discardLogger())

		result, err := svc.SyncMeetings(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)

		assert.Equal(t, 3, result.Fetched)
		assert.Equal(t, 1, result.Dropped)
		assert.Equal(t, 2, result.Inserted)
	})

	t.Run("empty window is rejected", func(t *testing.T) {
		svc := NewSyncService(&fakeCalendarSource{}, newFakeMeetingRepo(), discardLogger())

		_, err := svc.SyncMeetings(context.Background(), "", "")
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("transport failure maps to upstream unavailable", func(t *testing.T) {
		source := &fakeCalendarSource{err: errors.New("connection refused")}
		svc := NewSyncService(source, newFakeMeetingRepo(), discardLogger())

		_, err := svc.SyncMeetings(context.Background(), "2026-01-01", "2026-01-31")
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("malformed payload maps to upstream malformed", func(t *testing.T) {
		source := &fakeCalendarSource{err: &loveracing.MalformedPayloadError{Reason: "bad envelope"}}
		svc := NewSyncService(source, newFakeMeetingRepo(), discardLogger())

		_, err := svc.SyncMeetings(context.Background(), "2026-01-01", "2026-01-31")
		assert.ErrorIs(t, err, ErrUpstreamMalformed)
	})
}
