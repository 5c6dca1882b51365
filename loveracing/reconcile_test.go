package loveracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDotNetDate(t *testing.T) {
	t.Run("decodes milliseconds to a UTC date", func(t *testing.T) {
		date, ok := ParseDotNetDate("/Date(1767225600000)/")
		require.True(t, ok)
		assert.Equal(t, "2026-01-01", date)
	})

	t.Run("local-midnight timestamps stay on the NZ calendar day", func(t *testing.T) {
		// 2026-01-02 00:00 NZDT is 2026-01-01 11:00 UTC; the UTC calendar
		// date is what gets stored.
		date, ok := ParseDotNetDate("/Date(1767265200000)/")
		require.True(t, ok)
		assert.Equal(t, "2026-01-01", date)
	})

	t.Run("rejects strings without the wrapper", func(t *testing.T) {
		_, ok := ParseDotNetDate("2026-01-01")
		assert.False(t, ok)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, ok := ParseDotNetDate("")
		assert.False(t, ok)
	})
}

func TestReconcile(t *testing.T) {
	valid := CalendarEvent{
		DayID:      "4821",
		RaceDate:   "/Date(1767225600000)/",
		Racecourse: "Te Rapa",
		Club:       "Waikato RC",
	}

	t.Run("maps a well-formed event", func(t *testing.T) {
		meetings := Reconcile([]CalendarEvent{valid})
		require.Len(t, meetings, 1)

		m := meetings[0]
		assert.Equal(t, "2026-01-01", m.MeetingDate)
		assert.Equal(t, "Te Rapa", m.Track)
		require.NotNil(t, m.NZTRDayID)
		assert.Equal(t, int64(4821), *m.NZTRDayID)
		require.NotNil(t, m.Club)
		assert.Equal(t, "Waikato RC", *m.Club)
		assert.Equal(t, "loveracing", m.Source)
	})

	t.Run("venue falls back through the alternative fields", func(t *testing.T) {
		e := valid
		e.Racecourse = ""
		e.TrackAppName = "Te Rapa App"
		meetings := Reconcile([]CalendarEvent{e})
		require.Len(t, meetings, 1)
		assert.Equal(t, "Te Rapa App", meetings[0].Track)

		e.TrackAppName = ""
		e.RacecourseName = "Te Rapa Racecourse"
		meetings = Reconcile([]CalendarEvent{e})
		require.Len(t, meetings, 1)
		assert.Equal(t, "Te Rapa Racecourse", meetings[0].Track)
	})

	t.Run("missing club stays nil", func(t *testing.T) {
		e := valid
		e.Club = ""
		meetings := Reconcile([]CalendarEvent{e})
		require.Len(t, meetings, 1)
		assert.Nil(t, meetings[0].Club)
	})

	t.Run("drops events with unusable fields", func(t *testing.T) {
		noDayID := valid
		noDayID.DayID = ""
		zeroDayID := valid
		zeroDayID.DayID = "0"
		badDate := valid
		badDate.RaceDate = "tomorrow"
		noVenue := valid
		noVenue.Racecourse = ""

		meetings := Reconcile([]CalendarEvent{noDayID, zeroDayID, badDate, noVenue, valid})
		require.Len(t, meetings, 1)
		assert.Equal(t, "Te Rapa", meetings[0].Track)
	})

	t.Run("repeated day ids collapse to the last occurrence", func(t *testing.T) {
		stale := valid
		fresh := valid
		fresh.Racecourse = "Te Rapa (revised)"
		other := valid
		other.DayID = "4822"
		other.Racecourse = "Ellerslie"

		meetings := Reconcile([]CalendarEvent{stale, other, fresh})
		require.Len(t, meetings, 2)
		assert.Equal(t, "Te Rapa (revised)", meetings[0].Track)
		assert.Equal(t, "Ellerslie", meetings[1].Track)
	})

	t.Run("empty input yields an empty batch", func(t *testing.T) {
		assert.Empty(t, Reconcile(nil))
	})
}
