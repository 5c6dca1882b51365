package models

// RosterEntry is one attending participant on a meeting's roster, joined
// with their profile snapshot. Requestable is computed per caller: only an
// approved trainer viewing an approved, available jockey they have not
// already requested sees it set.
type RosterEntry struct {
	Attendance AttendanceRecord `json:"attendance"`
	Profile    *ProfileSnapshot `json:"profile,omitempty"`

	Requestable     bool         `json:"requestable"`
	ExistingRequest *RideRequest `json:"existing_request,omitempty"`
}
