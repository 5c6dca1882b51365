package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/racedaynz/jockeyfinder/middleware"
	"github.com/racedaynz/jockeyfinder/services"
)

const dateLayout = "2006-01-02"

type MeetingHandler struct {
	rosterService services.RosterService
}

func NewMeetingHandler(rosterService services.RosterService) *MeetingHandler {
	return &MeetingHandler{rosterService: rosterService}
}

// List returns upcoming meetings with attending counts. The window defaults
// to the next 60 days and can be narrowed with from/to query parameters.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 60)

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(dateLayout, raw)
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", raw))
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.Parse(dateLayout, raw)
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", raw))
			return
		}
	}

	meetings, err := h.rosterService.ListMeetings(r.Context(), from, to)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"meetings": meetings,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MeetingHandler) Roster(w http.ResponseWriter, r *http.Request) {
	meetingID, err := getIDFromURL(r, "meetingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	roster, err := h.rosterService.MeetingRoster(r.Context(), meetingID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"roster": roster,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
