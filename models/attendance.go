package models

import (
	"time"

	"github.com/google/uuid"
)

// Availability matches the availability ENUM in the database.
type Availability string

const (
	AvailabilityAvailable    Availability = "available"
	AvailabilityBooked       Availability = "booked"
	AvailabilityNotAvailable Availability = "not_available"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBooked, AvailabilityNotAvailable:
		return true
	}
	return false
}

// AttendanceRecord is one participant's stated intent for one meeting.
// (meeting_id, user_id) is UNIQUE in the database; upserts target that pair.
type AttendanceRecord struct {
	ID           int          `json:"id"`
	MeetingID    int          `json:"meeting_id"`
	UserID       uuid.UUID    `json:"user_id"`
	Attending    bool         `json:"attending"`
	Availability Availability `json:"availability"`
	Note         *string      `json:"note,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
