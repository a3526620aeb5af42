// Package spectate streams a live run to read-only websocket viewers.
// Viewers connect to /watch and receive one msgpack Frame per published
// snapshot. Nothing a viewer sends is interpreted.
package spectate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snek/internal/game"
)

const (
	// WatchPath is the websocket endpoint served by Hub.Handler.
	WatchPath = "/watch"

	// ViewerHeader carries the viewer ID in the upgrade response.
	ViewerHeader = "X-Snek-Viewer"

	sendBuffer   = 16
	writeTimeout = 2 * time.Second
)

type viewer struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
}

// Hub fans published snapshots out to connected viewers. Slow viewers drop
// frames instead of stalling the publisher.
type Hub struct {
	mu       sync.RWMutex
	viewers  map[string]*viewer
	last     []byte
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		viewers: make(map[string]*viewer),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:       func(r *http.Request) bool { return true },
			ReadBufferSize:    1024,
			WriteBufferSize:   4096,
			EnableCompression: true,
		},
	}
}

// Handler returns an http.Handler serving WatchPath.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(WatchPath, h)
	return mux
}

// ServeHTTP upgrades the request and blocks until the viewer disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	ws, err := h.upgrader.Upgrade(w, r, http.Header{ViewerHeader: []string{id}})
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	v := &viewer{id: id, ws: ws, send: make(chan []byte, sendBuffer)}
	h.add(v)
	h.logger.Info("viewer connected", "viewer", id, "remote", r.RemoteAddr)

	go h.writeLoop(v)
	h.readLoop(v)

	h.remove(v.id)
	ws.Close()
	h.logger.Info("viewer disconnected", "viewer", id)
}

func (h *Hub) add(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewers[v.id] = v
	if h.last != nil {
		v.send <- h.last
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.viewers[id]; ok {
		delete(h.viewers, id)
		close(v.send)
	}
}

// readLoop drains control frames so closes are noticed.
func (h *Hub) readLoop(v *viewer) {
	for {
		if _, _, err := v.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("viewer read error", "viewer", v.id, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(v *viewer) {
	for data := range v.send {
		v.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := v.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.logger.Debug("viewer write error", "viewer", v.id, "error", err)
			v.ws.Close()
			return
		}
	}
}

// Publish encodes s and queues it for every viewer.
func (h *Hub) Publish(s game.Snapshot) error {
	data, err := Encode(FrameFromSnapshot(s))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for _, v := range h.viewers {
		select {
		case v.send <- data:
		default:
		}
	}
	return nil
}

// Count returns the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, v := range h.viewers {
		v.ws.Close()
		close(v.send)
		delete(h.viewers, id)
	}
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("spectator feed listening", "address", addr, "path", WatchPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.Close()
	return srv.Shutdown(shutdownCtx)
}
