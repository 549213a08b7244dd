package realtime

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Event types carried on the live update channel.
const (
	EventConnected           = "connected"
	EventBreeamUpdate        = "breeam_update"
	EventEnergyUpdate        = "energy_update"
	EventCarbonUpdate        = "carbon_update"
	EventSustainabilityAlert = "sustainability_alert"
)

// Envelope is the wire shape of one push message: a typed event with an
// opaque payload and an optional human-readable message.
type Envelope struct {
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NewEnvelope builds an envelope by encoding the payload.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("realtime: encode %s payload: %w", event, err)
	}
	return Envelope{Event: event, Data: data}, nil
}

// Encode renders the envelope as a single JSON document.
func (e Envelope) Encode() ([]byte, error) {
	out, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("realtime: encode envelope: %w", err)
	}
	return out, nil
}

// DecodeEnvelope parses a JSON envelope from a push message body.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("realtime: decode envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("realtime: envelope missing event type")
	}
	return env, nil
}

// DecodeData unmarshals the envelope payload into v.
func (e Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("realtime: envelope %s has no payload", e.Event)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("realtime: decode %s payload: %w", e.Event, err)
	}
	return nil
}

// PropertyUpdate is the payload of the breeam/energy/carbon update events.
// Exactly one of Score, Consumption or Emissions is meaningful depending on
// the event type.
type PropertyUpdate struct {
	PropertyID  string    `json:"property_id"`
	Score       float64   `json:"score,omitempty"`
	Consumption float64   `json:"consumption,omitempty"`
	Emissions   float64   `json:"emissions,omitempty"`
	Change      float64   `json:"change"`
	Trend       string    `json:"trend,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// MetricValue picks the primary metric for the given event type.
func (u PropertyUpdate) MetricValue(event string) float64 {
	switch event {
	case EventBreeamUpdate:
		return u.Score
	case EventEnergyUpdate:
		return u.Consumption
	case EventCarbonUpdate:
		return u.Emissions
	default:
		return 0
	}
}

// Alert is the payload of the sustainability_alert event. Alerts are not
// bound to a single category; they fan out to every tab.
type Alert struct {
	PropertyID string    `json:"property_id,omitempty"`
	Severity   string    `json:"severity"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}
