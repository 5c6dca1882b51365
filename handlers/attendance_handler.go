package handlers

import (
	"net/http"

	"github.com/racedaynz/jockeyfinder/middleware"
	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/services"
)

type AttendanceHandler struct {
	attendanceService services.AttendanceService
	hub               RosterNotifier
}

// RosterNotifier is implemented by the live hub; it lets attendance and
// ride-request mutations push roster refreshes to connected clients.
type RosterNotifier interface {
	NotifyMeeting(meetingID int, event string)
}

func NewAttendanceHandler(attendanceService services.AttendanceService, hub RosterNotifier) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, hub: hub}
}

func (h *AttendanceHandler) MarkAttending(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		Availability string `json:"availability"`
		Note         string `json:"note"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	record, err := h.attendanceService.MarkAttending(r.Context(), meetingID, callerID, models.Availability(input.Availability), input.Note)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.NotifyMeeting(meetingID, "attendance_updated")
	}

	response := jsonResponse{
		"attendance": record,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AttendanceHandler) ClearAttendance(w http.ResponseWriter, r *http.Request) {
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

	if err := h.attendanceService.ClearAttendance(r.Context(), meetingID, callerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.NotifyMeeting(meetingID, "attendance_cleared")
	}

	w.WriteHeader(http.StatusNoContent)
}
