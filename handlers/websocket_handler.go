package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/udesh117/hackathon-system/realtime"
)

var errUnknownRoom = errors.New("unknown room, expected leaderboard or announcements")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebsocketHandler struct {
	hub *realtime.Hub
}

func NewWebsocketHandler(hub *realtime.Hub) *WebsocketHandler {
	return &WebsocketHandler{hub: hub}
}

// Serve upgrades the connection and subscribes the client to a room.
func (h *WebsocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room != realtime.RoomLeaderboard && room != realtime.RoomAnnouncements {
		badRequestResponse(w, r, errUnknownRoom)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &realtime.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: room,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
