package loveracing

import (
	"regexp"
	"strconv"
	"time"

	"github.com/racedaynz/jockeyfinder/models"
)

const Source = "loveracing"

var dotNetDateRe = regexp.MustCompile(`Date\((\d+)\)`)

// ParseDotNetDate decodes the "/Date(1767178800000)/" encoding to a UTC
// calendar date. The embedded value is milliseconds since the Unix epoch.
func ParseDotNetDate(raw string) (string, bool) {
	match := dotNetDateRe.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	ms, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return "", false
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02"), true
}

// venue resolves the track name from the first non-empty of the three
// alternative source fields.
func (e CalendarEvent) venue() string {
	for _, candidate := range []string{e.Racecourse, e.TrackAppName, e.RacecourseName} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Reconcile maps upstream events to meeting rows. A record missing its day
// id, a decodable date, or any venue field is dropped; one bad record never
// aborts the batch. Repeated day ids collapse to the last occurrence, since a
// single multi-row upsert cannot touch the same key twice. The result is
// deterministic for a given input and independent of transport, so the whole
// transformation is unit-testable without the network.
func Reconcile(events []CalendarEvent) []*models.Meeting {
	meetings := make([]*models.Meeting, 0, len(events))
	seen := make(map[int64]int)
	for _, e := range events {
		dayID, err := strconv.ParseInt(string(e.DayID), 10, 64)
		if err != nil || dayID == 0 {
			continue
		}
		date, ok := ParseDotNetDate(e.RaceDate)
		if !ok {
			continue
		}
		track := e.venue()
		if track == "" {
			continue
		}

		m := &models.Meeting{
			MeetingDate: date,
			Track:       track,
			NZTRDayID:   &dayID,
			Source:      Source,
		}
		if e.Club != "" {
			club := e.Club
			m.Club = &club
		}
		if idx, ok := seen[dayID]; ok {
			meetings[idx] = m
			continue
		}
		seen[dayID] = len(meetings)
		meetings = append(meetings, m)
	}
	return meetings
}
