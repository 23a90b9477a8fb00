package server

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/predictive"
)

const (
	sessionWriteWait  = 10 * time.Second
	sessionPongWait   = 60 * time.Second
	sessionPingPeriod = 50 * time.Second
)

// sessionMessage is sent by the client. Type is one of input, focus, blur,
// escape, click_outside, clear or select.
type sessionMessage struct {
	Type string                   `json:"type"`
	Term string                   `json:"term,omitempty"`
	Item *models.SearchResultItem `json:"item,omitempty"`
}

type sessionEvent struct {
	Type       string               `json:"type"`
	SessionID  string               `json:"session_id,omitempty"`
	Snapshot   *predictive.Snapshot `json:"snapshot,omitempty"`
	ViewAllURL string               `json:"view_all_url,omitempty"`
	Location   string               `json:"location,omitempty"`
	Message    string               `json:"message,omitempty"`
}

// handlePredictiveSession drives one predictive controller per websocket
// connection. Snapshots are pushed whenever the controller changes state.
func (s *Server) handlePredictiveSession(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Predictive session: upgrade failed: %v", err)
		return
	}

	sessionID := uuid.NewString()
	controller := predictive.NewController(s.search, predictive.Options{
		Limit:      s.search.PredictiveLimit(),
		Debounce:   s.cfg.Search.Debounce(),
		Timeout:    s.cfg.Storefront.Timeout(),
		Normalizer: s.search.Normalizer(),
	})

	out := make(chan sessionEvent, 32)
	done := make(chan struct{})
	send := func(ev sessionEvent) {
		select {
		case out <- ev:
		case <-done:
		}
	}

	unsubscribe := controller.Subscribe(func(snap predictive.Snapshot) {
		ev := sessionEvent{Type: "snapshot", Snapshot: &snap}
		if snap.Term != "" {
			ev.ViewAllURL = s.search.Normalizer().Prefixed(filters.Location(filters.State{Term: snap.Term}, nil))
		}
		send(ev)
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeLoop(conn, out, done)
	}()

	log.Printf("Predictive session %s opened from %s", sessionID, c.ClientIP())
	send(sessionEvent{Type: "session", SessionID: sessionID})

	readLoop(conn, controller, send)

	unsubscribe()
	controller.Close()
	close(done)
	<-writerDone
	_ = conn.Close()
	log.Printf("Predictive session %s closed", sessionID)
}

func readLoop(conn *websocket.Conn, controller *predictive.Controller, send func(sessionEvent)) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(sessionPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(sessionPongWait))
	})

	for {
		var msg sessionMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Predictive session: read failed: %v", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(sessionPongWait))

		switch msg.Type {
		case "input":
			controller.Input(msg.Term)
		case "focus":
			controller.Focus(msg.Term)
		case "blur":
			controller.Blur()
		case "escape":
			controller.Escape()
		case "click_outside":
			controller.ClickOutside()
		case "clear":
			controller.Clear()
		case "select":
			if msg.Item == nil {
				send(sessionEvent{Type: "error", Message: "select requires an item"})
				continue
			}
			send(sessionEvent{Type: "navigate", Location: controller.Select(*msg.Item)})
		default:
			send(sessionEvent{Type: "error", Message: "unknown message type: " + msg.Type})
		}
	}
}

func writeLoop(conn *websocket.Conn, out <-chan sessionEvent, done <-chan struct{}) {
	ticker := time.NewTicker(sessionPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("Predictive session: write failed: %v", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
