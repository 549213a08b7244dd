package realtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// State names a phase of the channel connection lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnectScheduled
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnectScheduled:
		return "reconnect-scheduled"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrReconnectBudgetExhausted is returned by Run once MaxAttempts
// consecutive reconnects have failed.
var ErrReconnectBudgetExhausted = errors.New("realtime: reconnect budget exhausted")

// Handler processes the payload of one event type.
type Handler func(env Envelope)

// Dialer opens the underlying push stream. The default dials an SSE endpoint
// over HTTP; tests substitute in-memory streams.
type Dialer func(ctx context.Context) (io.ReadCloser, error)

// Options configures a Channel.
type Options struct {
	// URL of the SSE endpoint; ignored when Dialer is set.
	URL        string
	HTTPClient *http.Client
	Dialer     Dialer
	Backoff    Backoff
	// MaxAttempts bounds consecutive failed reconnects. Zero retries
	// indefinitely; a positive budget makes the Failed state reachable and
	// observable instead of retrying silently forever.
	MaxAttempts int
	Logger      *slog.Logger
	// OnState observes every lifecycle transition.
	OnState func(State)
}

// Channel maintains one live push connection, decodes typed event envelopes
// and dispatches them to registered handlers. A transport drop schedules a
// reconnect with capped exponential backoff; a malformed or unknown message
// is logged and dropped without tearing the connection down.
type Channel struct {
	opts    Options
	dial    Dialer
	logger  *slog.Logger
	backoff Backoff

	mu       sync.RWMutex
	handlers map[string]Handler
	state    State
}

// NewChannel builds a channel; register handlers with On before Run.
func NewChannel(opts Options) (*Channel, error) {
	if opts.URL == "" && opts.Dialer == nil {
		return nil, fmt.Errorf("realtime: endpoint URL or dialer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backoff := opts.Backoff
	if backoff.Initial == 0 {
		backoff = DefaultBackoff()
	}
	c := &Channel{
		opts:     opts,
		logger:   logger,
		backoff:  backoff,
		handlers: make(map[string]Handler),
		state:    StateDisconnected,
	}
	c.dial = opts.Dialer
	if c.dial == nil {
		c.dial = c.dialSSE
	}
	return c, nil
}

// On registers the handler for an event type, replacing any previous one.
func (c *Channel) On(event string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = h
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Run connects and pumps events until the context is cancelled (returning
// nil after moving to Closed) or the reconnect budget is exhausted
// (returning ErrReconnectBudgetExhausted after moving to Failed).
func (c *Channel) Run(ctx context.Context) error {
	attempt := 0
	for {
		c.setState(StateConnecting)
		stream, err := c.dial(ctx)
		if err == nil {
			attempt = 0
			c.setState(StateConnected)
			err = c.pump(ctx, stream)
		}
		if ctx.Err() != nil {
			c.setState(StateClosed)
			return nil
		}
		attempt++
		if c.opts.MaxAttempts > 0 && attempt >= c.opts.MaxAttempts {
			c.logger.Error("realtime channel giving up",
				"attempts", attempt, "error", err)
			c.setState(StateFailed)
			return ErrReconnectBudgetExhausted
		}
		delay := c.backoff.Delay(attempt)
		c.logger.Warn("realtime channel dropped, reconnect scheduled",
			"attempt", attempt, "delay", delay, "error", err)
		c.setState(StateReconnectScheduled)
		select {
		case <-ctx.Done():
			c.setState(StateClosed)
			return nil
		case <-time.After(delay):
		}
	}
}

// pump reads SSE frames until the stream breaks.
func (c *Channel) pump(ctx context.Context, stream io.ReadCloser) error {
	defer stream.Close()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var data bytes.Buffer
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		switch {
		case len(line) == 0:
			if data.Len() > 0 {
				c.dispatch(data.Bytes())
				data.Reset()
			}
		case bytes.HasPrefix(line, []byte("data:")):
			data.Write(bytes.TrimPrefix(bytes.TrimPrefix(line, []byte("data:")), []byte(" ")))
		default:
			// event:/id:/retry: fields and comments are ignored; the JSON
			// envelope itself carries the event type.
		}
	}
	if data.Len() > 0 {
		c.dispatch(data.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("realtime: stream read: %w", err)
	}
	return io.EOF
}

// dispatch decodes one message and routes it. Failures never escape: a
// malformed envelope or an unknown event type is logged and the message is
// discarded.
func (c *Channel) dispatch(raw []byte) {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		c.logger.Warn("realtime message dropped", "error", err)
		return
	}
	c.mu.RLock()
	handler, ok := c.handlers[env.Event]
	c.mu.RUnlock()
	if !ok {
		c.logger.Debug("realtime event has no handler", "event", env.Event)
		return
	}
	handler(env)
}

func (c *Channel) setState(state State) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()
	if changed && c.opts.OnState != nil {
		c.opts.OnState(state)
	}
}

func (c *Channel) dialSSE(ctx context.Context) (io.ReadCloser, error) {
	client := c.opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime: build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("realtime: connect %s: %w", c.opts.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("realtime: connect %s: unexpected status %d", c.opts.URL, resp.StatusCode)
	}
	return resp.Body, nil
}
