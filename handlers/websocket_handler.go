package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Aidana07/volunteer-hub/middleware"
	"github.com/Aidana07/volunteer-hub/reconcile"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *reconcile.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler builds the websocket endpoints. allowedOrigin matches
// the CORS configuration; empty means any origin, as with the CORS fallback.
func NewWebSocketHandler(hub *reconcile.Hub, allowedOrigin string, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		logger: logger,
	}
}

// ServeEventWs subscribes the connection to live updates for one event.
func (h *WebSocketHandler) ServeEventWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, reconcile.EventRoom(eventID))
}

// ServeUserWs subscribes the connection to the caller's personal
// notification stream.
func (h *WebSocketHandler) ServeUserWs(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	h.serve(w, r, reconcile.UserRoom(currentUserID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Error("websocket upgrade failed",
			slog.String("room", roomID), slog.Any("error", err))
		return
	}

	client := &reconcile.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
