package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var simulatorUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type sendRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// HandleSend relays one simulator message over REST and returns the full log.
// POST /api/chat/message
func (b *Bridge) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "message text required")
		return
	}

	if err := b.Send(r.Context(), req.UserID, req.Text); err != nil {
		if errors.Is(err, ErrBusy) {
			writeError(w, http.StatusConflict, "a message is already being processed")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	b.writeLog(w)
}

// HandleLog returns the simulator conversation log.
// GET /api/chat/log
func (b *Bridge) HandleLog(w http.ResponseWriter, r *http.Request) {
	b.writeLog(w)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (b *Bridge) writeLog(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"messages": b.log.Messages()}); err != nil {
		b.logger.Error("failed to encode chat log", zap.Error(err))
	}
}

// HandleWS mirrors the simulator over a WebSocket: user lines in, appended
// log entries streamed out.
// GET /api/chat/ws?userId=...
func (b *Bridge) HandleWS(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("userId")

	conn, err := simulatorUpgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	feed, cancel := b.log.Subscribe()
	defer cancel()

	// One goroutine owns every write on the connection: the log replay,
	// the live feed, and busy notices pushed over from the read loop.
	notices := make(chan Message, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Replay the existing log so a fresh client sees the greeting.
		for _, msg := range b.log.Messages() {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
		for {
			select {
			case msg, ok := <-feed:
				if !ok {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					b.logger.Warn("failed to stream chat message", zap.Error(err))
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "write error"))
					return
				}
			case msg := <-notices:
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			}
		}
	}()

	for {
		var req sendRequest
		if err := conn.ReadJSON(&req); err != nil {
			break
		}
		if req.UserID == "" {
			req.UserID = conversationID
		}
		if err := b.Send(r.Context(), req.UserID, req.Text); errors.Is(err, ErrBusy) {
			select {
			case notices <- Message{Role: RoleAssistant, Content: busyNotice}:
			default:
			}
		}
	}

	cancel()
	<-done
}
