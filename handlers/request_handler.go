package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/middleware"
	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/services"
)

type RideRequestHandler struct {
	requestService services.RideRequestService
	queryService   services.RideRequestQueryService
	hub            RosterNotifier
}

func NewRideRequestHandler(
	requestService services.RideRequestService,
	queryService services.RideRequestQueryService,
	hub RosterNotifier,
) *RideRequestHandler {
	return &RideRequestHandler{
		requestService: requestService,
		queryService:   queryService,
		hub:            hub,
	}
}

func (h *RideRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.CreateRequestInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.MeetingID < 1 {
		badRequestResponse(w, r, errors.New("meeting_id is required"))
		return
	}
	if input.JockeyID == uuid.Nil {
		badRequestResponse(w, r, errors.New("jockey_id is required"))
		return
	}

	request, err := h.requestService.CreateRequest(r.Context(), callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.NotifyMeeting(request.MeetingID, "request_created")
	}

	response := jsonResponse{
		"request": request,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RideRequestHandler) Respond(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIDFromURL(r, "requestID")
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
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	request, err := h.requestService.Respond(r.Context(), callerID, requestID, models.RideRequestStatus(input.Status))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.NotifyMeeting(request.MeetingID, "request_"+input.Status)
	}

	response := jsonResponse{
		"request": request,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RideRequestHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.queryService.ListIncoming)
}

func (h *RideRequestHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.queryService.ListOutgoing)
}

func (h *RideRequestHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.queryService.ListAll)
}

func (h *RideRequestHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, callerID uuid.UUID) ([]*models.RideRequest, error),
) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	requests, err := fn(r.Context(), callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"requests": requests,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
