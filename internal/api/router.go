package api

import (
	"net/http"

	"github.com/ali-khaled-949/myChatApp/internal/api/handlers"
	"github.com/ali-khaled-949/myChatApp/internal/api/middleware"
	"github.com/ali-khaled-949/myChatApp/internal/service"
	"github.com/ali-khaled-949/myChatApp/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	pageHandler := handlers.NewPageHandler(services.Auth)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// Public pages and auth forms
	r.Get("/", handlers.HomePage)
	r.Get("/login", handlers.LoginPage)
	r.Get("/register", handlers.RegisterPage)
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	// Protected chat page
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(services.Auth))
		r.Get("/chat", pageHandler.Chat)
	})

	// WebSocket endpoint; the handler does its own session check so a
	// failed handshake is a plain rejection, not a redirect.
	r.Get("/ws", wsHandler.Handle)

	return r
}
