package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Client and server event names on the /ws endpoint.
const (
	EventFetchData   = "fetch_data"
	EventRequestData = "request_data"
	EventHeaderData  = "header_data"
	EventUpdateData  = "update_data"
	EventError       = "error"
)

const wsWriteWait = 10 * time.Second

// ClientMessage is a frame sent by a WebSocket client.
type ClientMessage struct {
	Event string `json:"event"`
	IP    string `json:"ip,omitempty"`
}

// ServerMessage is a frame sent to a WebSocket client.
type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// handleWebSocket serves one client. Requests on a connection are handled
// in order, so replies never interleave.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Clear the deadlines net/http set for the upgrade request.
	_ = conn.SetReadDeadline(time.Time{})
	s.metrics.WebSocketClients.Inc()
	defer s.metrics.WebSocketClients.Dec()

	defaultIP := strings.TrimSpace(r.URL.Query().Get("ip"))
	s.logger.Debug("websocket client connected", "remote", r.RemoteAddr)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if !s.send(conn, ServerMessage{Event: EventError, Data: errorBody{Error: "malformed message"}}) {
				return
			}
			continue
		}

		if !s.send(conn, s.reply(r, msg, defaultIP)) {
			return
		}
	}
}

func (s *Server) reply(r *http.Request, msg ClientMessage, defaultIP string) ServerMessage {
	ip := strings.TrimSpace(msg.IP)
	if ip == "" {
		ip = defaultIP
	}
	if !validTarget(ip) {
		return ServerMessage{Event: EventError, Data: errorBody{Error: "ip must be an IP address or host name"}}
	}

	switch msg.Event {
	case EventFetchData, EventRequestData:
	default:
		return ServerMessage{Event: EventError, Data: errorBody{Error: "unknown event " + msg.Event}}
	}

	report, err := s.reports.Process(r.Context(), ip)
	if err != nil {
		return ServerMessage{Event: EventError, Data: errorBody{Error: err.Error()}}
	}
	if msg.Event == EventFetchData {
		return ServerMessage{Event: EventHeaderData, Data: headerPayload(report)}
	}
	return ServerMessage{Event: EventUpdateData, Data: updatePayload(report)}
}

func (s *Server) send(conn *websocket.Conn, msg ServerMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("websocket write failed", "event", msg.Event, "error", err)
		return false
	}
	return true
}
