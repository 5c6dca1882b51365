package models

import "time"

// Meeting is a single race day at a venue, sourced from the external calendar.
// Rows are written only by the calendar sync; nztr_day_id is the idempotency key.
type Meeting struct {
	ID          int       `json:"id"`
	MeetingDate string    `json:"meeting_date"` // yyyy-mm-dd, UTC
	Track       string    `json:"track"`
	Club        *string   `json:"club,omitempty"`
	NZTRDayID   *int64    `json:"nztr_day_id,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeetingSnapshot is the denormalized subset embedded in request listings.
type MeetingSnapshot struct {
	ID          int     `json:"id"`
	MeetingDate string  `json:"meeting_date"`
	Track       string  `json:"track"`
	Club        *string `json:"club,omitempty"`
}

func (m *Meeting) Snapshot() *MeetingSnapshot {
	if m == nil {
		return nil
	}
	return &MeetingSnapshot{ID: m.ID, MeetingDate: m.MeetingDate, Track: m.Track, Club: m.Club}
}

// MeetingSummary is a meeting plus its attending head-count, for the public browse page.
type MeetingSummary struct {
	Meeting
	AttendingCount int `json:"attending_count"`
}
