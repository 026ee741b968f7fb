package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jaminalder/codex-reversi/internal/app"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func encodeWS(typ string, payload any) []byte {
	data, _ := json.Marshal(wsMessage{Type: typ, Payload: mustMarshal(payload)})
	return data
}

// ws serves a live channel for one game: state pushes out, play/reset commands in.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := playerID(r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// the snapshot and the subscription are taken together so no change falls between them
	gs, updates, unsub, err := h.svc.Watch(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade %s: %v", id, err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, encodeWS("state", newStateDTO(*gs, pid))); err != nil {
		log.Printf("[ws] write %s: %v", id, err)
		conn.Close()
		return
	}

	replies := make(chan []byte, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close()
		defer cancel()
		if err := writeWSWithHeartbeat(ctx, conn, h.heartbeat, pid, updates, replies); err != nil {
			log.Printf("[ws] write %s: %v", id, err)
		}
	}()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if reply := h.handleWS(id, pid, msg); reply != nil {
			select {
			case replies <- reply:
			case <-ctx.Done():
			}
		}
	}
	cancel()
	<-done
}

// handleWS applies one client command. Successful changes reach the client
// through its subscription; only rejections produce a direct reply.
func (h *handlers) handleWS(id, pid string, msg wsMessage) []byte {
	var err error
	switch msg.Type {
	case "play":
		var p moveRequest
		if json.Unmarshal(msg.Payload, &p) != nil || p.X == nil || p.Y == nil {
			return encodeWS("error", errorDTO{Error: "play needs x and y"})
		}
		_, _, err = h.svc.Play(id, pid, *p.X, *p.Y)
		if errors.Is(err, domain.ErrGameOver) {
			_, err = h.svc.Reset(id, pid)
		}
	case "reset":
		_, err = h.svc.Reset(id, pid)
	case "ping":
		return encodeWS("pong", nil)
	default:
		return encodeWS("error", errorDTO{Error: "unknown message type " + msg.Type})
	}
	if err != nil {
		return encodeWS("error", errorDTO{Error: err.Error()})
	}
	return nil
}

func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, idle time.Duration, pid string, updates <-chan app.GameState, replies <-chan []byte) error {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := encodeWS("ping", nil)

	write := func(msg []byte) error {
		lastWrite = time.Now()
		return conn.WriteMessage(websocket.TextMessage, msg)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case gs, ok := <-updates:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"))
				return nil
			}
			if err := write(encodeWS("state", newStateDTO(gs, pid))); err != nil {
				return err
			}
		case msg := <-replies:
			if err := write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < idle {
				continue
			}
			if err := write(pingPayload); err != nil {
				return err
			}
		}
	}
}
