package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/racedaynz/jockeyfinder/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the caller to roster events for one meeting.
// Clients connect to /ws/meetings/{meetingID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	meetingID, err := getIDFromURL(r, "meetingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection",
			slog.Int("meeting_id", meetingID), slog.Any("error", err))
		return
	}

	h.hub.NewClient(conn, meetingID)
}
