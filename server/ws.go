package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/runtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxInboundSize = 512
)

// refreshSignal is the whole payload of a push: a content-free poke telling
// the client to re-fetch from its last cursor. Signals carry no message data
// and may be coalesced.
var refreshSignal = []byte(`{"type":"refresh"}`)

// handleWebsocket opens the long-lived push channel. The connection stays
// registered with the hub until the client disconnects or its sink fails.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	sink := runtime.NewChannelSink(s.connectionBufferSize)
	registration := s.hub.Register(sink)
	defer func() {
		s.hub.Deregister(registration)
		sink.Close()
		_ = conn.Close()
	}()
	s.log.Debug("Push connection opened", "connection_id", registration.ID)

	// Reader goroutine: clients never send data, but reading is what detects
	// the disconnect and keeps pong handling alive.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(maxInboundSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			s.log.Debug("Push connection closed by client", "connection_id", registration.ID)
			return
		case <-sink.Signals():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, refreshSignal); err != nil {
				s.log.Debug("Push write failed", "connection_id", registration.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
