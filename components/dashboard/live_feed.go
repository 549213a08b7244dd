package dashboard

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sustainatrend/trendboard/pkg/realtime"
	"github.com/sustainatrend/trendboard/pkg/trends"
)

// maxFeedEntries caps each category feed; the oldest entry is evicted when a
// new one arrives at capacity.
const maxFeedEntries = 5

// FeedEntry is a single row in a category's live update feed.
type FeedEntry struct {
	PropertyID string    `json:"property_id"`
	Category   string    `json:"category"`
	Value      float64   `json:"value"`
	Change     float64   `json:"change"`
	Improved   bool      `json:"improved"`
	Trend      string    `json:"trend"`
	ReceivedAt time.Time `json:"received_at"`
}

// FeedAlert is a sustainability alert surfaced across every category tab.
type FeedAlert struct {
	PropertyID string    `json:"property_id"`
	Severity   string    `json:"severity"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

// FeedSnapshot is the state a renderer needs for one category tab.
type FeedSnapshot struct {
	Category string      `json:"category"`
	Entries  []FeedEntry `json:"entries"`
	Alerts   []FeedAlert `json:"alerts"`
	Unseen   int         `json:"unseen"`
	Active   bool        `json:"active"`
}

// LiveFeed accumulates realtime updates into bounded per-category feeds and
// tracks which tabs have updates the viewer has not looked at yet. Alerts are
// shared across categories.
type LiveFeed struct {
	mu        sync.RWMutex
	entries   map[string][]FeedEntry
	alerts    []FeedAlert
	unseen    map[string]int
	active    string
	toasts    *ToastCenter
	logger    *slog.Logger
	now       func() time.Time
	annunciat Annunciator
}

// LiveFeedOption customizes a LiveFeed.
type LiveFeedOption func(*LiveFeed)

// WithFeedToasts routes alert notifications through a toast center.
func WithFeedToasts(toasts *ToastCenter) LiveFeedOption {
	return func(f *LiveFeed) {
		f.toasts = toasts
	}
}

// WithFeedAnnunciator installs a side channel pulsed on every accepted update.
func WithFeedAnnunciator(a Annunciator) LiveFeedOption {
	return func(f *LiveFeed) {
		f.annunciat = a
	}
}

// WithFeedLogger overrides the default logger.
func WithFeedLogger(logger *slog.Logger) LiveFeedOption {
	return func(f *LiveFeed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFeedClock overrides the clock, for tests.
func WithFeedClock(now func() time.Time) LiveFeedOption {
	return func(f *LiveFeed) {
		if now != nil {
			f.now = now
		}
	}
}

// NewLiveFeed builds a LiveFeed with the given active category tab.
func NewLiveFeed(activeCategory string, options ...LiveFeedOption) *LiveFeed {
	f := &LiveFeed{
		entries: make(map[string][]FeedEntry),
		unseen:  make(map[string]int),
		active:  activeCategory,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// eventCategories maps realtime event names to feed categories.
var eventCategories = map[string]string{
	realtime.EventBreeamUpdate: "breeam",
	realtime.EventEnergyUpdate: "energy",
	realtime.EventCarbonUpdate: "carbon",
}

// CategoryForEvent returns the feed category for a realtime event name.
func CategoryForEvent(event string) (string, bool) {
	category, ok := eventCategories[event]
	return category, ok
}

// ApplyUpdate records a property update into its category feed. Updates for
// categories other than the active tab increment that tab's unseen counter.
func (f *LiveFeed) ApplyUpdate(event string, update realtime.PropertyUpdate) error {
	category, ok := CategoryForEvent(event)
	if !ok {
		return fmt.Errorf("no feed category for event %q", event)
	}

	change := update.Change
	entry := FeedEntry{
		PropertyID: update.PropertyID,
		Category:   category,
		Value:      update.MetricValue(event),
		Change:     change,
		Improved:   trends.PolarityFor(category).Improved(change),
		Trend:      update.Trend,
		ReceivedAt: f.now(),
	}

	f.mu.Lock()
	feed := append(f.entries[category], entry)
	if len(feed) > maxFeedEntries {
		feed = feed[len(feed)-maxFeedEntries:]
	}
	f.entries[category] = feed
	if category != f.active {
		f.unseen[category]++
	}
	f.mu.Unlock()

	f.announce(Toast{Severity: ToastInfo, Title: strings.ToUpper(category) + " update", Message: update.PropertyID})
	return nil
}

// ApplyAlert records an alert visible from every category tab, pushes a
// toast, and marks all inactive tabs unseen.
func (f *LiveFeed) ApplyAlert(alert realtime.Alert) {
	fa := FeedAlert{
		PropertyID: alert.PropertyID,
		Severity:   alert.Severity,
		Title:      alert.Title,
		Message:    alert.Message,
		ReceivedAt: f.now(),
	}

	f.mu.Lock()
	f.alerts = append(f.alerts, fa)
	if len(f.alerts) > maxFeedEntries {
		f.alerts = f.alerts[len(f.alerts)-maxFeedEntries:]
	}
	for _, category := range eventCategories {
		if category != f.active {
			f.unseen[category]++
		}
	}
	f.mu.Unlock()

	if f.toasts != nil {
		severity := ToastWarning
		if strings.EqualFold(alert.Severity, "critical") || strings.EqualFold(alert.Severity, "error") {
			severity = ToastError
		}
		f.toasts.Push(severity, alert.Title, alert.Message)
	}
	f.announce(Toast{Severity: ToastWarning, Title: alert.Title, Message: alert.Message})
}

// HandleEnvelope routes a decoded realtime envelope to the feed. Unknown
// events are logged and dropped.
func (f *LiveFeed) HandleEnvelope(env realtime.Envelope) {
	switch env.Event {
	case realtime.EventConnected:
		if f.toasts != nil {
			f.toasts.Push(ToastInfo, "Live updates", "Real-time connection established")
		}
	case realtime.EventBreeamUpdate, realtime.EventEnergyUpdate, realtime.EventCarbonUpdate:
		var update realtime.PropertyUpdate
		if err := env.DecodeData(&update); err != nil {
			f.logger.Warn("dropping malformed property update", "event", env.Event, "error", err)
			return
		}
		if err := f.ApplyUpdate(env.Event, update); err != nil {
			f.logger.Warn("dropping property update", "event", env.Event, "error", err)
		}
	case realtime.EventSustainabilityAlert:
		var alert realtime.Alert
		if err := env.DecodeData(&alert); err != nil {
			f.logger.Warn("dropping malformed alert", "error", err)
			return
		}
		f.ApplyAlert(alert)
	default:
		f.logger.Debug("ignoring unhandled realtime event", "event", env.Event)
	}
}

// ActivateTab switches the active category and clears its unseen counter.
func (f *LiveFeed) ActivateTab(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = category
	f.unseen[category] = 0
}

// ActiveTab returns the currently active category.
func (f *LiveFeed) ActiveTab() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.active
}

// Unseen returns the unseen-update count for a category tab.
func (f *LiveFeed) Unseen(category string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.unseen[category]
}

// Snapshot returns the feed state for one category, newest entry first.
func (f *LiveFeed) Snapshot(category string) FeedSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	feed := f.entries[category]
	entries := make([]FeedEntry, len(feed))
	for i, entry := range feed {
		entries[len(feed)-1-i] = entry
	}

	alerts := make([]FeedAlert, len(f.alerts))
	for i, alert := range f.alerts {
		alerts[len(f.alerts)-1-i] = alert
	}

	return FeedSnapshot{
		Category: category,
		Entries:  entries,
		Alerts:   alerts,
		Unseen:   f.unseen[category],
		Active:   category == f.active,
	}
}

func (f *LiveFeed) announce(toast Toast) {
	if f.annunciat == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("annunciator panicked", "error", r)
		}
	}()
	f.annunciat.Announce(toast)
}
