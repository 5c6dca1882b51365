package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racedaynz/jockeyfinder/models"
)

func TestMarkAttending(t *testing.T) {
	meeting := teRapaMeeting()

	t.Run("approved jockey can mark attendance", func(t *testing.T) {
		jockey := approvedJockey()
		attendanceRepo := newFakeAttendanceRepo()
		svc := NewAttendanceService(attendanceRepo, newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(jockey)))

		record, err := svc.MarkAttending(context.Background(), meeting.ID, jockey.ID, models.AvailabilityAvailable, "  first three races only  ")
		require.NoError(t, err)

		assert.Equal(t, meeting.ID, record.MeetingID)
		assert.Equal(t, jockey.ID, record.UserID)
		assert.True(t, record.Attending)
		assert.Equal(t, models.AvailabilityAvailable, record.Availability)
		require.NotNil(t, record.Note)
		assert.Equal(t, "first three races only", *record.Note)
	})

	t.Run("marking twice overwrites availability", func(t *testing.T) {
		jockey := approvedJockey()
		attendanceRepo := newFakeAttendanceRepo()
		svc := NewAttendanceService(attendanceRepo, newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(jockey)))

		first, err := svc.MarkAttending(context.Background(), meeting.ID, jockey.ID, models.AvailabilityAvailable, "")
		require.NoError(t, err)
		second, err := svc.MarkAttending(context.Background(), meeting.ID, jockey.ID, models.AvailabilityNotAvailable, "")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		stored, err := attendanceRepo.FindByMeetingAndUser(context.Background(), meeting.ID, jockey.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AvailabilityNotAvailable, stored.Availability)
	})

	t.Run("owner is rejected", func(t *testing.T) {
		owner := viewOnlyOwner()
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(owner)))

		_, err := svc.MarkAttending(context.Background(), meeting.ID, owner.ID, models.AvailabilityAvailable, "")
		assert.ErrorIs(t, err, ErrOwnerViewOnly)
	})

	t.Run("pending trainer is rejected", func(t *testing.T) {
		trainer := approvedTrainer()
		trainer.Status = models.StatusPending
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(trainer)))

		_, err := svc.MarkAttending(context.Background(), meeting.ID, trainer.ID, models.AvailabilityAvailable, "")
		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("invalid availability is rejected", func(t *testing.T) {
		jockey := approvedJockey()
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(jockey)))

		_, err := svc.MarkAttending(context.Background(), meeting.ID, jockey.ID, "maybe", "")
		assert.ErrorIs(t, err, ErrInvalidAvailability)
	})

	t.Run("unknown meeting is rejected", func(t *testing.T) {
		jockey := approvedJockey()
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(), NewVerificationGate(newFakeProfileRepo(jockey)))

		_, err := svc.MarkAttending(context.Background(), 999, jockey.ID, models.AvailabilityAvailable, "")
		assert.ErrorIs(t, err, ErrMeetingNotFound)
	})

	t.Run("unknown caller is rejected", func(t *testing.T) {
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo()))

		_, err := svc.MarkAttending(context.Background(), meeting.ID, uuid.New(), models.AvailabilityAvailable, "")
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestClearAttendance(t *testing.T) {
	meeting := teRapaMeeting()

	t.Run("removes the row", func(t *testing.T) {
		jockey := approvedJockey()
		attendanceRepo := newFakeAttendanceRepo()
		svc := NewAttendanceService(attendanceRepo, newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(jockey)))

		_, err := svc.MarkAttending(context.Background(), meeting.ID, jockey.ID, models.AvailabilityAvailable, "")
		require.NoError(t, err)

		require.NoError(t, svc.ClearAttendance(context.Background(), meeting.ID, jockey.ID))
		_, err = attendanceRepo.FindByMeetingAndUser(context.Background(), meeting.ID, jockey.ID)
		assert.Error(t, err)
	})

	t.Run("clearing an absent row is a no-op", func(t *testing.T) {
		jockey := approvedJockey()
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(jockey)))

		assert.NoError(t, svc.ClearAttendance(context.Background(), meeting.ID, jockey.ID))
	})

	t.Run("owner is rejected", func(t *testing.T) {
		owner := viewOnlyOwner()
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeMeetingRepo(meeting), NewVerificationGate(newFakeProfileRepo(owner)))

		assert.ErrorIs(t, svc.ClearAttendance(context.Background(), meeting.ID, owner.ID), ErrOwnerViewOnly)
	})
}
