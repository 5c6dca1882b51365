package models

import (
	"time"

	"github.com/google/uuid"
)

// RideRequestStatus matches the status ENUM in the database.
type RideRequestStatus string

const (
	RequestStatusRequested RideRequestStatus = "requested"
	RequestStatusAccepted  RideRequestStatus = "accepted"
	RequestStatusDeclined  RideRequestStatus = "declined"
	// RequestStatusCancelled is reserved; no operation currently transitions to it.
	RequestStatusCancelled RideRequestStatus = "cancelled"
)

// Terminal reports whether the status can no longer change.
func (s RideRequestStatus) Terminal() bool {
	switch s {
	case RequestStatusAccepted, RequestStatusDeclined, RequestStatusCancelled:
		return true
	}
	return false
}

// RideRequest is a trainer's proposal to a jockey for a specific meeting.
type RideRequest struct {
	ID         int               `json:"id"`
	MeetingID  int               `json:"meeting_id"`
	TrainerID  uuid.UUID         `json:"trainer_id"`
	JockeyID   uuid.UUID         `json:"jockey_id"`
	Horse      *string           `json:"horse,omitempty"`
	RaceNumber *int              `json:"race_number,omitempty"`
	Note       *string           `json:"note,omitempty"`
	Status     RideRequestStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`

	// Denormalized snapshots populated by the read side, never stored.
	Meeting *MeetingSnapshot `json:"meeting,omitempty"`
	Trainer *ProfileSnapshot `json:"trainer,omitempty"`
	Jockey  *ProfileSnapshot `json:"jockey,omitempty"`
}
