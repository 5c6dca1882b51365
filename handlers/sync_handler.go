package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/racedaynz/jockeyfinder/services"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Sync triggers a calendar pull for the given window. Without parameters it
// covers today through 90 days ahead, matching the nightly job.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	start := now.Format(dateLayout)
	end := now.AddDate(0, 0, 90).Format(dateLayout)

	if raw := r.URL.Query().Get("start"); raw != "" {
		if _, err := time.Parse(dateLayout, raw); err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", raw))
			return
		}
		start = raw
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if _, err := time.Parse(dateLayout, raw); err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", raw))
			return
		}
		end = raw
	}

	result, err := h.syncService.SyncMeetings(r.Context(), start, end)
	if err != nil {
		h.syncFailure(w, r, err)
		return
	}

	response := jsonResponse{
		"ok":       true,
		"inserted": result.Inserted,
		"fetched":  result.Fetched,
		"dropped":  result.Dropped,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// syncFailure reports a failed pull as {ok: false, error} so the operator
// polling the trigger can tell success from failure without inspecting status
// codes.
func (h *SyncHandler) syncFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUpstreamUnavailable), errors.Is(err, services.ErrUpstreamMalformed):
		status = http.StatusBadGateway
	case errors.Is(err, services.ErrValidationFailed):
		status = http.StatusBadRequest
	}
	response := jsonResponse{
		"ok":    false,
		"error": err.Error(),
	}
	if writeErr := writeJSON(w, status, response, nil); writeErr != nil {
		serverErrorResponse(w, r, writeErr)
	}
}
