package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/orbitrack/internal/adapters/nats"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/pkg/metrics"
)

const pingInterval = 30 * time.Second

// wsRequest is sent from client to server.
type wsRequest struct {
	Action        string `json:"action"`         // "theme" | "subscribe" | "unsubscribe"
	Theme         string `json:"theme"`          // theme name for "theme"
	CatalogNumber int    `json:"catalog_number"` // feed filter (0 = all objects)
}

// lockedWriter serialises writes to one connection.
type lockedWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *lockedWriter) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *lockedWriter) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// keepAlive pings until done is closed or a write fails.
func (w *lockedWriter) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// ViewerHandler drives one browser map per connection: the server owns the
// camera and trail state machine and streams draw calls to the client.
// Clients may send {"action":"theme","theme":"dark"} to restyle the trail.
func ViewerHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws viewer connected", "remote_addr", remoteAddr)

		theme := deps.Theme
		if name := c.Query("theme"); name != "" {
			if t, ok := render.ThemeByName(name); ok {
				theme = t
			}
		}

		w := &lockedWriter{conn: c}
		surface := newWSSurface(w.writeJSON)
		surface.ShowTheme(theme)
		view := render.NewView(surface, theme, deps.Camera)

		ctx, cancel := context.WithCancel(context.Background())
		viewDone := make(chan struct{})
		go func() {
			defer close(viewDone)
			view.Run(ctx, deps.Store)
		}()

		done := make(chan struct{})
		go w.keepAlive(done)

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				surface.ShowProtocolError("invalid JSON")
				continue
			}
			switch req.Action {
			case "theme":
				t, ok := render.ThemeByName(req.Theme)
				if !ok {
					surface.ShowProtocolError("unknown theme: " + req.Theme)
					continue
				}
				view.SetTheme(t)
				surface.ShowTheme(t)
			default:
				surface.ShowProtocolError("unknown action: " + req.Action)
			}
		}

		close(done)
		cancel()
		<-viewDone
		slog.Info("ws viewer disconnected", "remote_addr", remoteAddr, "camera", view.Camera().State().String())
	}
}

// FeedHandler relays raw snapshots published on NATS. Clients start on the
// local tracker's subject and may send
// {"action":"subscribe","catalog_number":0} to follow every object.
func FeedHandler(nc *nats.Conn, catalogNumber int) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		w := &lockedWriter{conn: c}

		if nc == nil {
			_ = w.writeJSON(map[string]string{"error": "feed not available"})
			return
		}
		slog.Info("ws feed client connected", "remote_addr", remoteAddr)

		subs := make(map[string]*nats.Subscription) // subject -> subscription
		relay := func(msg *nats.Msg) {
			_ = w.writeJSON(json.RawMessage(msg.Data))
		}

		defaultSubject := natsadapter.Subject(catalogNumber)
		sub, err := nc.Subscribe(defaultSubject, relay)
		if err != nil {
			slog.Warn("ws default subscribe error", "error", err)
			return
		}
		subs[defaultSubject] = sub

		done := make(chan struct{})
		go w.keepAlive(done)

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsRequest
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = w.writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject := natsadapter.AllSubjects
			if m.CatalogNumber > 0 {
				subject = natsadapter.Subject(m.CatalogNumber)
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = w.writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = w.writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = w.writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = w.writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = w.writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = w.writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws feed client disconnected", "remote_addr", remoteAddr)
	}
}
