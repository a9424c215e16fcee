package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raysh454/respdiff/internal/logging"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// handleComparisonsWS godoc
// @Summary Live feed of new comparisons
// @Description Upgrades to a WebSocket; every stored comparison is pushed as {"type":"comparison","data":...,"timestamp":...}.
// @Tags comparisons
// @Router /ws/comparisons [get]
func (s *Server) handleComparisonsWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no event stored after it is missed.
	events, unsubscribe := s.orchestrator.Subscribe()
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	s.logger.Info("websocket subscriber connected", logging.Field{Key: "remote", Value: r.RemoteAddr})

	// The read side only tracks liveness; clients are not expected to send anything.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("websocket write failed", logging.Field{Key: "error", Value: err.Error()})
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			s.logger.Info("websocket subscriber disconnected", logging.Field{Key: "remote", Value: r.RemoteAddr})
			return
		case <-r.Context().Done():
			return
		}
	}
}
