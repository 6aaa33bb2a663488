// Package server is the HTTP surface over the chat core: login, cursor-based
// message retrieval, message creation, and the websocket push channel.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"chat-relay/runtime"
	"chat-relay/services"
)

// SessionCookieName is the cookie carrying the session token, as issued at
// login. A bearer Authorization header is accepted as an alternative.
const SessionCookieName = "session_id"

type Server struct {
	log                  *slog.Logger
	authService          services.IAuthService
	chatService          services.IChatService
	hub                  *runtime.Hub
	upgrader             websocket.Upgrader
	connectionBufferSize int
}

func New(log *slog.Logger, authService services.IAuthService,
	chatService services.IChatService, hub *runtime.Hub, connectionBufferSize int) *Server {
	return &Server{
		log:         log,
		authService: authService,
		chatService: chatService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connectionBufferSize: connectionBufferSize,
	}
}

// Router wires the HTTP routes to the core services.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/login", s.handleLogin)
	r.Get("/messages", s.handleGetMessages)
	r.Post("/messages", s.handlePostMessage)
	r.Get("/ws", s.handleWebsocket)

	return r
}

// sessionToken extracts the bearer credential from the request:
// session cookie first, then an Authorization: Bearer header.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
