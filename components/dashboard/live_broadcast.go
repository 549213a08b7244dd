package dashboard

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sustainatrend/trendboard/pkg/realtime"
)

// LiveHub fans realtime envelopes out to in-process subscribers and serves
// them over SSE and WebSocket. It doubles as a RefreshHook so tile refreshes
// reach the same connections.
type LiveHub struct {
	mu   sync.RWMutex
	subs map[int]chan realtime.Envelope
	next int
	feed *LiveFeed
}

// LiveHubOption customizes a LiveHub.
type LiveHubOption func(*LiveHub)

// WithHubFeed routes every published envelope through a live feed before
// fanning it out.
func WithHubFeed(feed *LiveFeed) LiveHubOption {
	return func(h *LiveHub) {
		h.feed = feed
	}
}

// NewLiveHub creates a hub with no subscribers.
func NewLiveHub(options ...LiveHubOption) *LiveHub {
	h := &LiveHub{
		subs: make(map[int]chan realtime.Envelope),
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// Publish delivers an envelope to every subscriber. Slow subscribers drop.
func (h *LiveHub) Publish(_ context.Context, env realtime.Envelope) error {
	if h.feed != nil {
		h.feed.HandleEnvelope(env)
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- env:
		default:
		}
	}
	return nil
}

// TileUpdated satisfies the RefreshHook interface by republishing tile
// refresh events as envelopes.
func (h *LiveHub) TileUpdated(ctx context.Context, event TileEvent) error {
	env, err := realtime.NewEnvelope("tile_refresh", event)
	if err != nil {
		return err
	}
	return h.Publish(ctx, env)
}

// Subscribe returns a channel of envelopes and a cancel func.
func (h *LiveHub) Subscribe() (<-chan realtime.Envelope, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan realtime.Envelope, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams envelopes as JSON.
func (h *LiveHub) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	if err := h.writeHello(func(payload []byte) error {
		return conn.WriteMessage(websocket.TextMessage, payload)
	}); err != nil {
		return
	}

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			payload, err := env.Encode()
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams envelopes as Server-Sent Events. The first message is a
// connected envelope so clients can distinguish an open stream from a stall.
func (h *LiveHub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)
	write := func(payload []byte) error {
		if _, err := w.Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	if err := h.writeHello(write); err != nil {
		return
	}

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			payload, err := env.Encode()
			if err != nil {
				continue
			}
			if err := write(payload); err != nil {
				return
			}
		}
	}
}

func (h *LiveHub) writeHello(write func([]byte) error) error {
	hello := realtime.Envelope{
		Event:   realtime.EventConnected,
		Message: "Connected to real-time sustainability updates",
	}
	payload, err := hello.Encode()
	if err != nil {
		return err
	}
	return write(payload)
}
