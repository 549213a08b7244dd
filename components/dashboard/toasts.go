package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastSeverity classifies a notification.
type ToastSeverity string

const (
	ToastInfo    ToastSeverity = "info"
	ToastSuccess ToastSeverity = "success"
	ToastWarning ToastSeverity = "warning"
	ToastError   ToastSeverity = "error"
)

// TTL returns how long a toast of this severity stays visible. Errors linger
// longer so operators have time to read them.
func (s ToastSeverity) TTL() time.Duration {
	switch s {
	case ToastError:
		return 8 * time.Second
	case ToastWarning:
		return 6 * time.Second
	default:
		return 5 * time.Second
	}
}

// Toast is a transient notification shown to the viewer.
type Toast struct {
	ID        string        `json:"id"`
	Severity  ToastSeverity `json:"severity"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Annunciator is an optional side channel for sensory cues (a chime, a row
// highlight pulse). Implementations must not block; failures are logged and
// never surface to callers.
type Annunciator interface {
	Announce(toast Toast)
}

// AnnunciatorFunc adapts a function to the Annunciator interface.
type AnnunciatorFunc func(toast Toast)

func (f AnnunciatorFunc) Announce(toast Toast) { f(toast) }

// ToastCenter owns the active toast list and fans new toasts out to
// subscribers. Expired toasts are pruned lazily on read.
type ToastCenter struct {
	mu          sync.RWMutex
	active      []Toast
	subscribers map[chan Toast]struct{}
	annunciator Annunciator
	logger      *slog.Logger
	now         func() time.Time
}

// ToastCenterOption customizes a ToastCenter.
type ToastCenterOption func(*ToastCenter)

// WithToastAnnunciator installs a sensory side channel.
func WithToastAnnunciator(a Annunciator) ToastCenterOption {
	return func(c *ToastCenter) {
		c.annunciator = a
	}
}

// WithToastLogger overrides the default logger.
func WithToastLogger(logger *slog.Logger) ToastCenterOption {
	return func(c *ToastCenter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithToastClock overrides the clock, for tests.
func WithToastClock(now func() time.Time) ToastCenterOption {
	return func(c *ToastCenter) {
		if now != nil {
			c.now = now
		}
	}
}

// NewToastCenter builds a ToastCenter.
func NewToastCenter(options ...ToastCenterOption) *ToastCenter {
	c := &ToastCenter{
		subscribers: make(map[chan Toast]struct{}),
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Push creates a toast, stores it, and notifies subscribers and the
// annunciator. Returns the created toast.
func (c *ToastCenter) Push(severity ToastSeverity, title, message string) Toast {
	now := c.now()
	toast := Toast{
		ID:        uuid.NewString(),
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(severity.TTL()),
	}

	c.mu.Lock()
	c.prune(now)
	c.active = append(c.active, toast)
	subs := make([]chan Toast, 0, len(c.subscribers))
	for ch := range c.subscribers {
		subs = append(subs, ch)
	}
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- toast:
		default:
			c.logger.Warn("toast subscriber buffer full, dropping", "toast_id", toast.ID)
		}
	}

	c.announce(toast)
	return toast
}

func (c *ToastCenter) announce(toast Toast) {
	if c.annunciator == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("annunciator panicked", "error", r)
		}
	}()
	c.annunciator.Announce(toast)
}

// Info pushes an informational toast.
func (c *ToastCenter) Info(title, message string) Toast {
	return c.Push(ToastInfo, title, message)
}

// Success pushes a success toast.
func (c *ToastCenter) Success(title, message string) Toast {
	return c.Push(ToastSuccess, title, message)
}

// Warning pushes a warning toast.
func (c *ToastCenter) Warning(title, message string) Toast {
	return c.Push(ToastWarning, title, message)
}

// Error pushes an error toast.
func (c *ToastCenter) Error(title, message string) Toast {
	return c.Push(ToastError, title, message)
}

// Dismiss removes a toast before its TTL elapses.
func (c *ToastCenter) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, toast := range c.active {
		if toast.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// Active returns the non-expired toasts, oldest first.
func (c *ToastCenter) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	out := make([]Toast, len(c.active))
	copy(out, c.active)
	return out
}

// Subscribe returns a channel receiving every toast pushed after the call,
// plus a cancel function. The channel is buffered; slow consumers drop.
func (c *ToastCenter) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, 16)
	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// prune drops expired toasts. Caller holds c.mu.
func (c *ToastCenter) prune(now time.Time) {
	kept := c.active[:0]
	for _, toast := range c.active {
		if toast.ExpiresAt.After(now) {
			kept = append(kept, toast)
		}
	}
	c.active = kept
}
