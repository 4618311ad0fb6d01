package handlers

import (
	"log"
	"net/http"

	"github.com/ali-khaled-949/myChatApp/internal/api/middleware"
	"github.com/ali-khaled-949/myChatApp/internal/service"
	"github.com/ali-khaled-949/myChatApp/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// Handle admits a websocket connection. The handshake carries the same
// session cookie the page routes use; the connection is rejected before the
// upgrade when the cookie does not resolve to a live session, so a rejected
// client just sees its connection attempt fail.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := h.authService.CurrentIdentity(r.Context(), cookie.Value)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	log.Printf("WebSocket admitted: user %s", client.UserID())

	go client.WritePump()
	go client.ReadPump()
}
